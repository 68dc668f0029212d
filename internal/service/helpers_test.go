package service

import "os"

func writeSeed(path string) error {
	return os.WriteFile(path, []byte(sampleMap), 0644)
}
