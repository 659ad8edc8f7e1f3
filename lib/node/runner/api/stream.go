package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/GianlucaGuarini/go-observable"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/observer"
	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/httputils"
)

const (
	// DefaultContentType is "application/json"
	DefaultContentType = "application/json"
	EventStreamType    = "text/event-stream"

	// DefaultStreamBuffer is how many rendered events wait for a slow
	// client; more are dropped.
	DefaultStreamBuffer = 64
)

// GetEventsHandler streams the governance events. Events can be narrowed
// by `type` (repeatable), `vote` and `account`.
func (api NetworkHandlerAPI) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	events := strings.Fields(observer.EventTypes)
	if types, found := q["type"]; found {
		events = nil
		for _, t := range types {
			if _, ok := common.InStringArray(strings.Fields(observer.EventTypes), t); !ok {
				httputils.WriteJSONError(w, errors.BadRequestParameter.Clone().SetData("type", t))
				return
			}
			events = append(events, t)
		}
	}

	var voteID uint64
	if s := q.Get("vote"); s != "" {
		var err error
		if voteID, err = strconv.ParseUint(s, 10, 64); err != nil {
			httputils.WriteJSONError(w, errors.BadRequestParameter.Clone().SetData("vote", s))
			return
		}
	}
	account := q.Get("account")

	contentType := DefaultContentType
	if httputils.IsEventStream(r) {
		contentType = EventStreamType
	}

	es := NewEventStream(w, r, RenderJSONFunc, contentType)
	es.Filter = func(v interface{}) bool {
		e, ok := v.(observer.Event)
		if !ok {
			return false
		}
		if voteID != 0 && e.VoteID != voteID {
			return false
		}
		if len(account) > 0 && e.Account != account {
			return false
		}
		return true
	}

	run := es.Start(api.observer, events...)
	es.Render(nil)
	run()
}

// EventStream handles chunked responses of a observable trigger
type EventStream struct {
	contentType string
	renderFunc  RenderFunc
	request     *http.Request
	writer      http.ResponseWriter
	flusher     http.Flusher
	err         error
	rendered    bool

	// Filter drops the triggered values it returns false for.
	Filter func(interface{}) bool
}

type RenderFunc func(v interface{}) ([]byte, error)

var RenderJSONFunc = func(v interface{}) ([]byte, error) {
	if v == nil {
		return []byte{}, nil
	}
	return json.Marshal(v)
}

// NewEventStream makes *EventStream and checks http.Flusher by type assertion.
func NewEventStream(w http.ResponseWriter, r *http.Request, renderFunc RenderFunc, ct string) *EventStream {
	es := &EventStream{
		request:     r,
		writer:      w,
		renderFunc:  renderFunc,
		contentType: ct,
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		es.err = fmt.Errorf("http: can't do chunked response")
	} else {
		es.flusher = flusher
	}

	return es
}

// Render writes one chunk and flushes it.
func (s *EventStream) Render(v interface{}) {
	if s.err != nil {
		return
	}

	bs, err := s.renderFunc(v)
	if err != nil {
		bs = s.errMessage(err)
	}
	s.write(bs)
}

func (s *EventStream) write(bs []byte) {
	if !s.rendered {
		s.writer.Header().Set("Content-Type", s.contentType)
		s.writer.Header().Set("Cache-Control", "no-cache")
		s.rendered = true
	}

	if s.contentType == EventStreamType {
		if len(bs) > 0 {
			fmt.Fprintf(s.writer, "data: %s\n\n", bs)
		} else {
			fmt.Fprint(s.writer, ": ok\n\n")
		}
	} else {
		fmt.Fprintf(s.writer, "%s\n", bs)
	}
	s.flusher.Flush()
}

// Run start observing events.
func (s *EventStream) Run(ob *observable.Observable, events ...string) {
	s.Start(ob, events...)()
}

// Start subscribes to `events` and returns the func writing them until the
// request is done. Subscribing before writing anything means no event is
// lost once the client sees the response.
func (s *EventStream) Start(ob *observable.Observable, events ...string) func() {
	if s.err != nil {
		http.Error(s.writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return func() {}
	}

	event := strings.Join(events, " ")
	msg := make(chan []byte, DefaultStreamBuffer)

	onFunc := func(args ...interface{}) {
		if len(args) < 1 {
			return
		}
		// with several topics, the topic name comes first
		v := args[len(args)-1]
		if s.Filter != nil && !s.Filter(v) {
			return
		}

		payload, err := s.renderFunc(v)
		if err != nil {
			payload = s.errMessage(err)
		}

		select {
		case msg <- payload:
		default:
			log.Warn("event stream is full; event dropped", "event", v)
		}
	}
	ob.On(event, onFunc)

	return func() {
		defer ob.Off(event, onFunc)

		for {
			select {
			case payload := <-msg:
				s.write(payload)
			case <-s.request.Context().Done():
				return
			}
		}
	}
}

func (s *EventStream) errMessage(err error) []byte {
	p := httputils.NewErrorProblem(err, httputils.StatusCode(err))
	b, err := json.Marshal(p)
	if err != nil {
		b = []byte{}
	}
	return b
}
