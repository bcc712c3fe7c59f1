package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohsen-qasemi/herald/internal/digest"
	"github.com/mohsen-qasemi/herald/internal/feed"
	"github.com/mohsen-qasemi/herald/internal/mail"
	"github.com/mohsen-qasemi/herald/internal/store"
	"github.com/mohsen-qasemi/herald/provider"
	"github.com/mohsen-qasemi/herald/tools/web_search"
	"github.com/mohsen-qasemi/herald/utils"
)

// PendingArchiveSpam marks a bulk mail-archive action awaiting
// confirmation.
const PendingArchiveSpam = "archive_spam"

// ChannelStore is the slice of the store the channel tools need.
type ChannelStore interface {
	ListActiveChannels(ctx context.Context) ([]store.Channel, error)
	AddChannel(ctx context.Context, username, title string) (store.Channel, error)
	RemoveChannel(ctx context.Context, username string) (bool, error)
	DeactivateAllChannels(ctx context.Context) (int64, error)
}

// BuiltinDeps carries the collaborators the builtin tools close over.
// Mail and Searcher are optional; their tools report "not configured"
// when absent.
type BuiltinDeps struct {
	Oracle     provider.Provider
	Mail       mail.Client
	Searcher   web_search.WebSearcher
	Channels   ChannelStore
	Resolver   feed.Reader
	Aggregator *digest.Aggregator
	Generator  *digest.Generator
	Pending    *PendingStore

	WindowHours     int
	MaxItems        int
	MaxCharsPerItem int
}

// RegisterBuiltinTools installs the assistant's tool set into reg. Called
// once during composition; any registration error is a configuration
// fault the caller should treat as fatal.
func RegisterBuiltinTools(reg *Registry, deps BuiltinDeps) error {
	toRegister := []struct {
		desc    Descriptor
		handler Handler
	}{
		{
			Descriptor{
				Name:        "check_email",
				Description: "Checks unread mail and shows the important messages",
			},
			deps.checkEmail,
		},
		{
			Descriptor{
				Name:        "get_news_digest",
				Description: "Builds a news digest from the monitored feed channels",
				Params: []Param{
					{Name: "digest_type", Description: "Digest kind: 'brief' or 'full'", Required: false},
				},
			},
			deps.getNewsDigest,
		},
		{
			Descriptor{
				Name:        "web_search",
				Description: "Searches the web for information",
				Params: []Param{
					{Name: "query", Description: "Search query", Required: true},
				},
			},
			deps.webSearch,
		},
		{
			Descriptor{
				Name:        "search_news",
				Description: "Searches current news on a specific topic",
				Params: []Param{
					{Name: "topic", Description: "Topic to search news for", Required: true},
				},
			},
			deps.searchNews,
		},
		{
			Descriptor{
				Name:        "list_channels",
				Description: "Shows the list of monitored feed channels",
			},
			deps.listChannels,
		},
		{
			Descriptor{
				Name:        "add_channel",
				Description: "Adds a feed channel to the monitored list",
				Params: []Param{
					{Name: "channel_username", Description: "Channel name (with or without @), e.g. bbcnews or @bbcnews", Required: true},
				},
			},
			deps.addChannel,
		},
		{
			Descriptor{
				Name:        "remove_channel",
				Description: "Removes a feed channel from the monitored list",
				Params: []Param{
					{Name: "channel_username", Description: "Channel name to remove (with or without @)", Required: true},
				},
			},
			deps.removeChannel,
		},
		{
			Descriptor{
				Name:        "clear_all_channels",
				Description: "Removes ALL channels from the monitored list",
			},
			deps.clearAllChannels,
		},
	}
	for _, t := range toRegister {
		if err := reg.Register(t.desc, t.handler); err != nil {
			return err
		}
	}
	return nil
}

func (d BuiltinDeps) checkEmail(ctx context.Context, args map[string]string) (string, error) {
	if d.Mail == nil {
		return "", fmt.Errorf("mail is not configured")
	}
	refs, err := d.Mail.ListUnread(ctx, 10)
	if err != nil {
		return "", err
	}
	if len(refs) == 0 {
		return "No unread mail.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d unread messages:\n\n", len(refs))

	var spamIDs []string
	shown := 0
	for _, ref := range refs {
		msg, err := d.Mail.GetMessage(ctx, ref.ID)
		if err != nil {
			continue
		}

		label, ok := mail.FastpathLabel(msg.LabelIDs)
		if !ok {
			label = mail.Triage(ctx, d.Oracle,
				msg.Headers["From"], msg.Headers["Subject"], msg.Snippet).Label
		}
		if label == mail.LabelSpam {
			spamIDs = append(spamIDs, msg.ID)
			continue
		}

		if shown < 5 {
			shown++
			subject := msg.Headers["Subject"]
			if subject == "" {
				subject = "(no subject)"
			}
			snippet := msg.Snippet
			if cut := utils.TruncateRunes(snippet, 100); cut != snippet {
				snippet = cut + "..."
			}
			fmt.Fprintf(&b, "%d. From: %s\n   Subject: %s\n   %s\n\n",
				shown, msg.Headers["From"], subject, snippet)
		}
	}

	if len(spamIDs) > 0 {
		if caller, ok := CallerFrom(ctx); ok && d.Pending != nil {
			d.Pending.Set(caller, PendingAction{Kind: PendingArchiveSpam, IDs: spamIDs})
			fmt.Fprintf(&b, "%d messages look like junk. Reply \"yes\" to archive them.", len(spamIDs))
		} else {
			fmt.Fprintf(&b, "%d messages look like junk.", len(spamIDs))
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (d BuiltinDeps) getNewsDigest(ctx context.Context, args map[string]string) (string, error) {
	kind := store.DigestBrief
	if args["digest_type"] == string(store.DigestFull) {
		kind = store.DigestFull
	}

	window := d.WindowHours
	if window <= 0 {
		window = 24
	}
	result, err := d.Aggregator.Aggregate(ctx, window)
	if err != nil {
		return "", err
	}
	if result.TotalItems == 0 {
		return fmt.Sprintf("No new messages in the last %d hours.", window), nil
	}

	budgeted := digest.FormatForLLM(result, d.MaxItems, d.MaxCharsPerItem)
	generated, err := d.Generator.Generate(ctx, budgeted, kind, false)
	if err != nil {
		return "", err
	}

	label := "Brief"
	if kind == store.DigestFull {
		label = "Detailed"
	}
	header := fmt.Sprintf("%s news summary\nMessages processed: %d\n\n", label, result.TotalItems)
	return header + generated.Content, nil
}

func (d BuiltinDeps) webSearch(ctx context.Context, args map[string]string) (string, error) {
	if d.Searcher == nil {
		return "", fmt.Errorf("web search is not configured")
	}
	query := args["query"]
	if query == "" {
		return "", fmt.Errorf("query parameter is required")
	}
	results, err := d.Searcher.Search(ctx, query, 5)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return fmt.Sprintf("Nothing found for: %s", query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results: %s\n\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n\n", i+1, r.Title, r.Snippet, r.URL)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (d BuiltinDeps) searchNews(ctx context.Context, args map[string]string) (string, error) {
	if d.Searcher == nil {
		return "", fmt.Errorf("web search is not configured")
	}
	topic := args["topic"]
	if topic == "" {
		return "", fmt.Errorf("topic parameter is required")
	}
	results, err := d.Searcher.News(ctx, topic, 5)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return fmt.Sprintf("No news found for topic: %s", topic), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "News on topic: %s\n\n", topic)
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   %s", i+1, r.Title, r.Source)
		if r.Date != "" {
			fmt.Fprintf(&b, " | %s", r.Date)
		}
		fmt.Fprintf(&b, "\n   %s\n\n", r.URL)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (d BuiltinDeps) listChannels(ctx context.Context, args map[string]string) (string, error) {
	channels, err := d.Channels.ListActiveChannels(ctx)
	if err != nil {
		return "", err
	}
	if len(channels) == 0 {
		return "No monitored channels.", nil
	}

	var b strings.Builder
	b.WriteString("Monitored channels:\n\n")
	for _, ch := range channels {
		title := ch.Title
		if title == "" {
			title = ch.Username
		}
		fmt.Fprintf(&b, "- %s (@%s)\n", title, ch.Username)
	}
	fmt.Fprintf(&b, "\nTotal: %d channels", len(channels))
	return b.String(), nil
}

func (d BuiltinDeps) addChannel(ctx context.Context, args map[string]string) (string, error) {
	username := strings.TrimPrefix(args["channel_username"], "@")
	if username == "" {
		return "", fmt.Errorf("channel_username parameter is required")
	}

	info, err := d.Resolver.Resolve(ctx, username)
	if err != nil {
		return "", fmt.Errorf("could not add channel @%s: %w", username, err)
	}
	ch, err := d.Channels.AddChannel(ctx, username, info.Title)
	if err != nil {
		return "", fmt.Errorf("could not add channel @%s: %w", username, err)
	}
	title := ch.Title
	if title == "" {
		title = ch.Username
	}
	return fmt.Sprintf("Channel added: %s (@%s)", title, ch.Username), nil
}

func (d BuiltinDeps) removeChannel(ctx context.Context, args map[string]string) (string, error) {
	username := strings.TrimPrefix(args["channel_username"], "@")
	if username == "" {
		return "", fmt.Errorf("channel_username parameter is required")
	}
	removed, err := d.Channels.RemoveChannel(ctx, username)
	if err != nil {
		return "", err
	}
	if !removed {
		return fmt.Sprintf("Channel @%s is not in the monitored list.", username), nil
	}
	return fmt.Sprintf("Channel @%s removed from monitoring.", username), nil
}

func (d BuiltinDeps) clearAllChannels(ctx context.Context, args map[string]string) (string, error) {
	count, err := d.Channels.DeactivateAllChannels(ctx)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "The channel list is already empty.", nil
	}
	return fmt.Sprintf("Channel list cleared. Removed: %d channels.", count), nil
}
