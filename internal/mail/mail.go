// Package mail defines the narrow contract to the mail provider and the
// triage logic layered on top of it. The provider client itself (OAuth,
// API mechanics) lives behind the Client interface.
package mail

import "context"

// Headers are the parsed message headers keyed by canonical name
// ("From", "Subject", ...).
type Headers map[string]string

// Ref identifies one message in a listing.
type Ref struct {
	ID string
}

// Message is one fetched message: headers, a short snippet and the
// provider's label identifiers (used for fastpath classification).
type Message struct {
	ID       string
	Headers  Headers
	Snippet  string
	LabelIDs []string
}

// Client is the mail-provider adapter. Irreversible per-message actions
// (archive, draft) surface their errors to the caller; listing failures do
// too, the tool layer renders them as diagnostics.
type Client interface {
	ListUnread(ctx context.Context, max int) ([]Ref, error)
	GetMessage(ctx context.Context, id string) (Message, error)
	BatchArchive(ctx context.Context, ids []string) error
}
