package sheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	gnt "github.com/dstotijn/go-notion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotion stores pages in memory and pages query results two at a time.
// Like Notion, it returns every database property on every page, empty
// when the page has no value for it.
type fakeNotion struct {
	pages     []gnt.Page
	archived  []string
	requests  [][]byte
	title     string
	columns   map[string]struct{}
	nextID    int
	createErr error
	queryErr  error
}

func (f *fakeNotion) QueryDatabase(_ context.Context, _ string, query *gnt.DatabaseQuery) (gnt.DatabaseQueryResponse, error) {
	if f.queryErr != nil {
		return gnt.DatabaseQueryResponse{}, f.queryErr
	}
	start := 0
	if query != nil && query.StartCursor != "" {
		fmt.Sscanf(query.StartCursor, "%d", &start)
	}
	end := start + 2
	if end > len(f.pages) {
		end = len(f.pages)
	}
	resp := gnt.DatabaseQueryResponse{}
	for _, page := range f.pages[start:end] {
		resp.Results = append(resp.Results, f.withSchema(page))
	}
	if end < len(f.pages) {
		next := fmt.Sprintf("%d", end)
		resp.HasMore = true
		resp.NextCursor = &next
	}
	return resp, nil
}

func (f *fakeNotion) CreatePage(_ context.Context, params gnt.CreatePageParams) (gnt.Page, error) {
	if f.createErr != nil {
		return gnt.Page{}, f.createErr
	}
	body, err := json.Marshal(params)
	if err != nil {
		return gnt.Page{}, err
	}
	f.requests = append(f.requests, body)

	if f.columns == nil {
		f.columns = map[string]struct{}{}
	}
	for name, prop := range *params.DatabasePageProperties {
		switch {
		case prop.Title != nil:
			f.title = name
		case name != RowProperty:
			f.columns[name] = struct{}{}
		}
	}

	f.nextID++
	page := gnt.Page{
		ID:         fmt.Sprintf("page-%d", f.nextID),
		Properties: *params.DatabasePageProperties,
	}
	// Notion lists newest pages first.
	f.pages = append([]gnt.Page{page}, f.pages...)
	return page, nil
}

func (f *fakeNotion) withSchema(page gnt.Page) gnt.Page {
	props := gnt.DatabasePageProperties{}
	if f.title != "" {
		props[f.title] = gnt.DatabasePageProperty{Type: gnt.DBPropTypeTitle, Title: []gnt.RichText{}}
	}
	for name := range f.columns {
		props[name] = gnt.DatabasePageProperty{Type: gnt.DBPropTypeRichText, RichText: []gnt.RichText{}}
	}
	for name, prop := range page.Properties.(gnt.DatabasePageProperties) {
		props[name] = prop
	}
	page.Properties = props
	return page
}

func (f *fakeNotion) DeleteBlock(_ context.Context, id string) (gnt.Block, error) {
	for i, p := range f.pages {
		if p.ID == id {
			f.pages = append(f.pages[:i], f.pages[i+1:]...)
			f.archived = append(f.archived, id)
			return nil, nil
		}
	}
	return nil, errors.New("not found")
}

var testHeader = []string{"id", "company", "role", "status", "ppt_date"}

func TestNotion_RoundTrip(t *testing.T) {
	ctx := context.Background()
	api := &fakeNotion{}
	sh := newNotion(api, "db-1")

	rows := [][]string{
		{"a", "Acme", "SWE", "Applied", ""},
		{"b", "Beta", "SDE", "PPT", "2024-06-01"},
		{"c", "Gamma", "PM", "Test", ""},
	}
	require.NoError(t, sh.ReplaceRows(ctx, testHeader, rows))
	assert.Len(t, api.pages, 3)

	header, got, err := sh.ReadRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "company", "ppt_date", "role", "status"}, header)
	require.Len(t, got, 3)
	for i, row := range got {
		assert.Equal(t, rows[i][0], row[0], "row order kept")
	}
	assert.Equal(t, "2024-06-01", got[1][2])
	assert.Equal(t, "PPT", got[1][4])
}

func TestNotion_ReplaceArchivesOldPages(t *testing.T) {
	ctx := context.Background()
	api := &fakeNotion{}
	sh := newNotion(api, "db-1")

	require.NoError(t, sh.ReplaceRows(ctx, testHeader, [][]string{
		{"a", "Acme", "SWE", "Applied", ""},
		{"b", "Beta", "SDE", "Applied", ""},
		{"c", "Gamma", "PM", "Applied", ""},
	}))
	require.NoError(t, sh.ReplaceRows(ctx, testHeader, [][]string{{"d", "Delta", "SWE", "Test", ""}}))

	assert.Len(t, api.archived, 3)
	_, rows, err := sh.ReadRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "d", rows[0][0])

	require.NoError(t, sh.ReplaceRows(ctx, testHeader, nil))
	header, rows, err := sh.ReadRows(ctx)
	require.NoError(t, err)
	assert.Nil(t, header)
	assert.Empty(t, rows)
}

func TestNotion_BlankCellsOmitted(t *testing.T) {
	ctx := context.Background()
	api := &fakeNotion{}
	sh := newNotion(api, "db-1")

	header := []string{"id", "company", "ppt_note", "ppt_date"}
	rows := [][]string{
		{"a", "Acme", "", ""},
		{"b", "Beta", "bring resume", ""},
		{"", "Gamma", "", ""},
	}
	require.NoError(t, sh.ReplaceRows(ctx, header, rows))
	require.Len(t, api.requests, 3)

	for _, body := range api.requests {
		var req struct {
			Properties map[string]map[string]json.RawMessage `json:"properties"`
		}
		require.NoError(t, json.Unmarshal(body, &req), string(body))
		for name, prop := range req.Properties {
			assert.NotEmpty(t, prop, "property %q sent without a value: %s", name, body)
		}
	}

	var first struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(api.requests[0], &first))
	assert.Contains(t, first.Properties, "id")
	assert.Contains(t, first.Properties, "company")
	assert.NotContains(t, first.Properties, "ppt_note")
	assert.NotContains(t, first.Properties, "ppt_date")

	got, read, err := sh.ReadRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "company", "ppt_note"}, got)
	assert.Equal(t, [][]string{
		{"a", "Acme", ""},
		{"b", "Beta", "bring resume"},
		{"", "Gamma", ""},
	}, read)
}

func TestNotion_LongCells(t *testing.T) {
	ctx := context.Background()
	api := &fakeNotion{}
	sh := newNotion(api, "db-1")

	long := strings.Repeat("é", maxRichTextLen*2+5)
	require.NoError(t, sh.ReplaceRows(ctx, []string{"id", "applied_note"}, [][]string{{"a", long}}))

	props := api.pages[0].Properties.(gnt.DatabasePageProperties)
	assert.Len(t, props["applied_note"].RichText, 3)

	_, rows, err := sh.ReadRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, long, rows[0][1])
}

func TestNotion_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("rate limited")

	sh := newNotion(&fakeNotion{queryErr: boom}, "db-1")
	_, _, err := sh.ReadRows(ctx)
	require.ErrorIs(t, err, boom)

	sh = newNotion(&fakeNotion{createErr: boom}, "db-1")
	err = sh.ReplaceRows(ctx, testHeader, [][]string{{"a", "Acme", "SWE", "Applied", ""}})
	require.ErrorIs(t, err, boom)

	require.Error(t, sh.ReplaceRows(ctx, nil, nil))

	_, err = NewNotion("", "db")
	require.Error(t, err)
	_, err = NewNotion("secret", "")
	require.Error(t, err)
}

func TestRichText(t *testing.T) {
	assert.Empty(t, richText(""))
	assert.Len(t, richText(strings.Repeat("x", maxRichTextLen)), 1)
	assert.Len(t, richText(strings.Repeat("x", maxRichTextLen+1)), 2)
	assert.Equal(t, "hello", plainText(richText("hello")))
}
