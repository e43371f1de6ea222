package pipeline

import "context"

type Kind string

const (
	KindSpam            Kind = "spam"
	KindRaid            Kind = "raid"
	KindMentionSpam     Kind = "mention spam"
	KindLinkSpam        Kind = "link spam"
	KindFilteredContent Kind = "filtered content"
)

// Violation is a detector's signal that one configured rule was broken by one
// event. Direct marks violations the ingest handles with a delete and notice
// only, bypassing the generic warn-and-timeout path.
type Violation struct {
	Kind         Kind
	Reason       string
	DetectorName string
	Direct       bool
}

type Detector interface {
	Name() string
	Inspect(ctx context.Context, payload Payload) (*Violation, error)
}
