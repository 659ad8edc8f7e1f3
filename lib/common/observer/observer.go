package observer

import (
	"fmt"
	"strings"

	"github.com/GianlucaGuarini/go-observable"
)

// GovernanceObserver carries the outbound notifications of the governance
// engine. Handlers subscribed to one topic receive the `Event` as the only
// argument; handlers subscribed to several topics get the topic name
// first. Use `EventFromArgs` in both cases.
var GovernanceObserver = observable.New()

// BlockObserver is triggered with the block after it was stored.
var BlockObserver = observable.New()

type EventType string

const (
	EventCARegistered EventType = "ca-registered"
	EventRegistered   EventType = "registered"
	EventCreated      EventType = "created"
	EventVoted        EventType = "voted"
	EventConcluded    EventType = "concluded"
	EventWithdrew     EventType = "withdrew"
)

// EventTypes lists every event type, space separated, to subscribe to all
// of them at once.
var EventTypes = strings.Join([]string{
	string(EventCARegistered),
	string(EventRegistered),
	string(EventCreated),
	string(EventVoted),
	string(EventConcluded),
	string(EventWithdrew),
}, " ")

type Event struct {
	Type    EventType `json:"type"`
	Account string    `json:"account,omitempty"`
	VoteID  uint64    `json:"vote_id,omitempty"`
	CAIndex uint64    `json:"ca_index,omitempty"`
	Choice  string    `json:"choice,omitempty"`
	Height  uint64    `json:"height"`
}

func (e Event) String() string {
	return fmt.Sprintf("%s-vote=%d-account=%s", e.Type, e.VoteID, e.Account)
}

// Topics returns the observable event names `e` is triggered on. Watchers
// subscribe to one type, to one vote or to one account; "*" receives all.
func (e Event) Topics() []string {
	topics := []string{string(e.Type)}
	if e.VoteID != 0 {
		topics = append(topics, VoteTopic(e.VoteID))
	}
	if len(e.Account) > 0 {
		topics = append(topics, AccountTopic(e.Account))
	}

	return topics
}

func VoteTopic(id uint64) string {
	return fmt.Sprintf("vote-%d", id)
}

func AccountTopic(address string) string {
	return fmt.Sprintf("account-%s", address)
}

// Trigger fires `e` on every topic it belongs to.
func Trigger(o *observable.Observable, e Event) {
	o.Trigger(strings.Join(e.Topics(), " "), e)
}

// EventFromArgs picks the `Event` out of the arguments of an observable
// handler.
func EventFromArgs(args ...interface{}) (Event, bool) {
	for i := len(args) - 1; i >= 0; i-- {
		if e, ok := args[i].(Event); ok {
			return e, true
		}
	}

	return Event{}, false
}
