package sheet

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	gnt "github.com/dstotijn/go-notion"
)

// RowProperty is the number property that keeps row order in a Notion
// database, which otherwise has none.
const RowProperty = "row"

// Notion rejects rich text objects longer than this many characters.
const maxRichTextLen = 2000

// notionAPI is the part of the Notion client the backend uses.
type notionAPI interface {
	QueryDatabase(ctx context.Context, id string, query *gnt.DatabaseQuery) (gnt.DatabaseQueryResponse, error)
	CreatePage(ctx context.Context, params gnt.CreatePageParams) (gnt.Page, error)
	DeleteBlock(ctx context.Context, blockID string) (gnt.Block, error)
}

// Notion keeps the worksheet in a Notion database: one page per row. The
// first header column is the database's title property; the others are
// rich text properties.
type Notion struct {
	api        notionAPI
	databaseID string
}

// NewNotion returns a backend for the database with the given integration
// token.
func NewNotion(token, databaseID string) (*Notion, error) {
	if token == "" {
		return nil, fmt.Errorf("notion token is not configured")
	}
	if databaseID == "" {
		return nil, fmt.Errorf("notion database id is not configured")
	}
	return newNotion(gnt.NewClient(token), databaseID), nil
}

func newNotion(api notionAPI, databaseID string) *Notion {
	return &Notion{api: api, databaseID: databaseID}
}

func (n *Notion) Name() string {
	return "notion database " + n.databaseID
}

// ReadRows returns the pages of the database in row order. The header is
// the title property followed by the remaining properties in name order.
func (n *Notion) ReadRows(ctx context.Context) ([]string, [][]string, error) {
	pages, err := n.pages(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(pages) == 0 {
		return nil, nil, nil
	}

	type entry struct {
		order float64
		cells map[string]string
	}
	var (
		entries []entry
		title   string
		names   = map[string]struct{}{}
	)
	for _, page := range pages {
		props, ok := page.Properties.(gnt.DatabasePageProperties)
		if !ok {
			continue
		}
		e := entry{cells: map[string]string{}}
		for name, prop := range props {
			switch {
			case name == RowProperty:
				if prop.Number != nil {
					e.order = *prop.Number
				}
			case prop.Title != nil || prop.Type == gnt.DBPropTypeTitle:
				title = name
				e.cells[name] = plainText(prop.Title)
			default:
				names[name] = struct{}{}
				e.cells[name] = plainText(prop.RichText)
			}
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].order < entries[j].order })

	rest := make([]string, 0, len(names))
	for name := range names {
		if name != title {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)

	header := append([]string{title}, rest...)
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := make([]string, len(header))
		for i, name := range header {
			row[i] = e.cells[name]
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// ReplaceRows archives every page in the database and creates one page per
// row.
func (n *Notion) ReplaceRows(ctx context.Context, header []string, rows [][]string) error {
	if len(header) == 0 {
		return fmt.Errorf("empty header")
	}

	pages, err := n.pages(ctx)
	if err != nil {
		return err
	}
	for _, page := range pages {
		if _, err := n.api.DeleteBlock(ctx, page.ID); err != nil {
			return fmt.Errorf("archive page %s: %w", page.ID, err)
		}
	}

	for i, row := range rows {
		order := float64(i)
		props := gnt.DatabasePageProperties{
			RowProperty: gnt.DatabasePageProperty{Number: &order},
		}
		for col, name := range header {
			var cell string
			if col < len(row) {
				cell = row[col]
			}
			// Notion rejects a property without content; a blank cell is
			// left out and reads back as empty.
			if cell == "" {
				continue
			}
			if col == 0 {
				props[name] = gnt.DatabasePageProperty{Title: richText(cell)}
				continue
			}
			props[name] = gnt.DatabasePageProperty{RichText: richText(cell)}
		}

		_, err := n.api.CreatePage(ctx, gnt.CreatePageParams{
			ParentType:             gnt.ParentTypeDatabase,
			ParentID:               n.databaseID,
			DatabasePageProperties: &props,
		})
		if err != nil {
			return fmt.Errorf("create row %d: %w", i, err)
		}
	}
	return nil
}

func (n *Notion) pages(ctx context.Context) ([]gnt.Page, error) {
	var (
		pages  []gnt.Page
		cursor string
	)
	for {
		resp, err := n.api.QueryDatabase(ctx, n.databaseID, &gnt.DatabaseQuery{
			StartCursor: cursor,
			PageSize:    100,
		})
		if err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == nil {
			return pages, nil
		}
		cursor = *resp.NextCursor
	}
}

// richText splits s into rich text objects no longer than Notion allows.
func richText(s string) []gnt.RichText {
	out := []gnt.RichText{}
	for s != "" {
		n := len(s)
		if utf8.RuneCountInString(s) > maxRichTextLen {
			n = 0
			for i := 0; i < maxRichTextLen; i++ {
				_, size := utf8.DecodeRuneInString(s[n:])
				n += size
			}
		}
		out = append(out, gnt.RichText{Text: &gnt.Text{Content: s[:n]}})
		s = s[n:]
	}
	return out
}

func plainText(rt []gnt.RichText) string {
	var b strings.Builder
	for _, r := range rt {
		if r.PlainText != "" {
			b.WriteString(r.PlainText)
		} else if r.Text != nil {
			b.WriteString(r.Text.Content)
		}
	}
	return b.String()
}
