package alert

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"metromaps/internal/domain"
	"metromaps/internal/editor"
)

// gtfsRealtimeVersion is the version declared in feed headers
const gtfsRealtimeVersion = "2.0"

// Options configures alert generation
type Options struct {
	AgencyID string
	Language string

	// ActiveFor bounds the active period of new alerts; zero leaves it open
	ActiveFor time.Duration
}

// Feed accumulates service alerts
type Feed struct {
	mu       sync.Mutex
	opts     Options
	entities []*gtfsrtpb.FeedEntity
	now      func() time.Time
}

// NewFeed creates an empty alert feed
func NewFeed(opts Options) *Feed {
	if opts.Language == "" {
		opts.Language = "en"
	}
	return &Feed{
		opts:     opts,
		entities: make([]*gtfsrtpb.FeedEntity, 0),
		now:      time.Now,
	}
}

// Len returns the number of alerts in the feed
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entities)
}

// Reset drops every alert
func (f *Feed) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entities = f.entities[:0]
}

// AddClosure records a station closure
func (f *Feed) AddClosure(c *editor.Closure) string {
	informed := make([]*gtfsrtpb.EntitySelector, 0, len(c.Lines))
	for _, line := range c.Lines {
		informed = append(informed, f.selector(line, c.Station))
	}
	header := fmt.Sprintf("Station %s closed on line %s", c.Station.Name, joinLineNames(c.Lines))
	return f.add(gtfsrtpb.Alert_MAINTENANCE, gtfsrtpb.Alert_NO_SERVICE, header, "", informed)
}

// AddReplacement records a replacement service
func (f *Feed) AddReplacement(r *editor.Replacement) string {
	informed := make([]*gtfsrtpb.EntitySelector, 0, len(r.Removed)+len(r.Segment))
	for _, line := range r.Removed {
		informed = append(informed, f.selector(line, nil))
	}
	names := make([]string, len(r.Segment))
	for i, station := range r.Segment {
		informed = append(informed, f.selector(nil, station))
		names[i] = station.Name
	}

	first, last := r.Segment[0].Name, r.Segment[len(r.Segment)-1].Name
	header := fmt.Sprintf("Replacement service %s between %s and %s", r.Line.Name, first, last)
	desc := fmt.Sprintf("Line %s does not run between %s. Use replacement line %s.",
		joinLineNames(r.Removed), strings.Join(names, ", "), r.Line.Name)
	return f.add(gtfsrtpb.Alert_CONSTRUCTION, gtfsrtpb.Alert_DETOUR, header, desc, informed)
}

// AddAlternative records an alternative service
func (f *Feed) AddAlternative(a *editor.Alternative) string {
	informed := []*gtfsrtpb.EntitySelector{
		f.selector(a.Line, nil),
		f.selector(nil, a.From),
		f.selector(nil, a.To),
	}
	header := fmt.Sprintf("Alternative service %s between %s and %s", a.Line.Name, a.From.Name, a.To.Name)
	return f.add(gtfsrtpb.Alert_OTHER_CAUSE, gtfsrtpb.Alert_ADDITIONAL_SERVICE, header, "", informed)
}

func (f *Feed) add(cause gtfsrtpb.Alert_Cause, effect gtfsrtpb.Alert_Effect, header, description string, informed []*gtfsrtpb.EntitySelector) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := f.now()
	period := &gtfsrtpb.TimeRange{Start: proto.Uint64(uint64(start.Unix()))}
	if f.opts.ActiveFor > 0 {
		period.End = proto.Uint64(uint64(start.Add(f.opts.ActiveFor).Unix()))
	}

	alert := &gtfsrtpb.Alert{
		ActivePeriod:   []*gtfsrtpb.TimeRange{period},
		InformedEntity: informed,
		Cause:          cause.Enum(),
		Effect:         effect.Enum(),
		HeaderText:     f.text(header),
	}
	if description != "" {
		alert.DescriptionText = f.text(description)
	}

	id := uuid.NewString()
	f.entities = append(f.entities, &gtfsrtpb.FeedEntity{
		Id:    proto.String(id),
		Alert: alert,
	})
	return id
}

// Message returns the feed as a FULL_DATASET FeedMessage
func (f *Feed) Message() *gtfsrtpb.FeedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	entities := make([]*gtfsrtpb.FeedEntity, len(f.entities))
	for i, e := range f.entities {
		entities[i] = proto.Clone(e).(*gtfsrtpb.FeedEntity)
	}

	return &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String(gtfsRealtimeVersion),
			Incrementality:      gtfsrtpb.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(uint64(f.now().Unix())),
		},
		Entity: entities,
	}
}

// MarshalProto encodes the feed in protobuf wire format
func (f *Feed) MarshalProto() ([]byte, error) {
	b, err := proto.Marshal(f.Message())
	if err != nil {
		return nil, fmt.Errorf("marshal alert feed: %w", err)
	}
	return b, nil
}

// MarshalJSON encodes the feed as protojson
func (f *Feed) MarshalJSON() ([]byte, error) {
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(f.Message())
	if err != nil {
		return nil, fmt.Errorf("marshal alert feed: %w", err)
	}
	return b, nil
}

func (f *Feed) selector(line *domain.Line, station *domain.Station) *gtfsrtpb.EntitySelector {
	sel := &gtfsrtpb.EntitySelector{}
	if f.opts.AgencyID != "" {
		sel.AgencyId = proto.String(f.opts.AgencyID)
	}
	if line != nil {
		sel.RouteId = proto.String(strconv.Itoa(line.ID))
	}
	if station != nil {
		sel.StopId = proto.String(strconv.Itoa(station.ID))
	}
	return sel
}

func (f *Feed) text(s string) *gtfsrtpb.TranslatedString {
	return &gtfsrtpb.TranslatedString{
		Translation: []*gtfsrtpb.TranslatedString_Translation{{
			Text:     proto.String(s),
			Language: proto.String(f.opts.Language),
		}},
	}
}

func joinLineNames(lines []*domain.Line) string {
	names := make([]string, len(lines))
	for i, line := range lines {
		names[i] = line.Name
	}
	return strings.Join(names, ", ")
}
