// Package tui is the interactive report viewer.
//
// One bubbletea model wires the pieces together: the report session
// drives the top-level view (upload spinner, error screen, loaded
// report), the evidence index supplies page references for every row,
// and the navigator plus page-image resolver power the page viewer.
// All async work (document submission, page fetches) happens in
// tea.Cmds; results come back as messages on the single update loop.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	"pvreview/internal/api"
	"pvreview/internal/navigator"
	"pvreview/internal/report"
	"pvreview/internal/session"
)

// ---------------------------------------------------------------------------
// Rows
// ---------------------------------------------------------------------------

type rowKind int

const (
	rowFact rowKind = iota
	rowVerification
	rowFlag
)

// row is one selectable line in the report body. Red flags are stored
// in severity order with their refs attached, so sorting for display
// never desynchronizes a flag from its evidence.
type row struct {
	kind  rowKind
	refs  []report.PageRef
	fact  *report.ExtractedFact
	verif *report.VerificationResult
	flag  *report.RedFlag
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// analyzeDoneMsg completes a submission, either way.
type analyzeDoneMsg struct {
	rep *report.AnalysisReport
	err error
}

// pageImageMsg delivers one page fetch result. token is the navigator
// token at request time; stale results are dropped in Update.
type pageImageMsg struct {
	token int
	page  int
	img   []byte
	err   error
}

// pageSavedMsg reports the outcome of saving the open page to disk.
type pageSavedMsg struct {
	path string
	err  error
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model is the top-level bubbletea model.
type Model struct {
	client   *api.Client
	resolver *api.Resolver
	logger   hclog.Logger

	// filePath is set for `analyze`, docID for `report`. Exactly one
	// is non-empty.
	filePath string
	docID    string

	sess *session.Session
	rep  *report.AnalysisReport
	idx  *report.Index
	nav  *navigator.Navigator
	rows []row

	cursor  int
	spinner spinner.Model
	keys    keyMap

	// Page viewer state, meaningful only while nav has an open page.
	pageImg   []byte
	pageErr   string
	fetching  bool
	savedPath string

	width  int
	height int
	done   bool
}

// NewAnalyze builds a model that submits filePath on start.
func NewAnalyze(client *api.Client, resolver *api.Resolver, logger hclog.Logger, filePath string) Model {
	return newModel(client, resolver, logger, filePath, "")
}

// NewReport builds a model that loads a stored report by doc id.
func NewReport(client *api.Client, resolver *api.Resolver, logger hclog.Logger, docID string) Model {
	return newModel(client, resolver, logger, "", docID)
}

func newModel(client *api.Client, resolver *api.Resolver, logger hclog.Logger, filePath, docID string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return Model{
		client:   client,
		resolver: resolver,
		logger:   logger,
		filePath: filePath,
		docID:    docID,
		sess:     session.New(),
		spinner:  sp,
		keys:     defaultKeyMap(),
	}
}

// Init starts the spinner and the initial submission or report load.
func (m Model) Init() tea.Cmd {
	if m.docID != "" {
		// Loading by id reuses the session's upload states: the load
		// is a submission whose "file" already lives upstream.
		_ = m.sess.Submit(m.docID)
		return tea.Batch(m.spinner.Tick, m.loadReportCmd())
	}
	_ = m.sess.Submit(filepath.Base(m.filePath))
	return tea.Batch(m.spinner.Tick, m.analyzeCmd())
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func (m Model) analyzeCmd() tea.Cmd {
	path := m.filePath
	client := m.client
	return func() tea.Msg {
		rep, err := client.Analyze(context.Background(), path)
		return analyzeDoneMsg{rep: rep, err: err}
	}
}

func (m Model) loadReportCmd() tea.Cmd {
	docID := m.docID
	client := m.client
	return func() tea.Msg {
		rep, err := client.Report(context.Background(), docID)
		return analyzeDoneMsg{rep: rep, err: err}
	}
}

func (m Model) fetchPageCmd(token, page int) tea.Cmd {
	resolver := m.resolver
	docID := m.rep.Document.DocID
	return func() tea.Msg {
		img, err := resolver.PageImage(context.Background(), docID, page)
		return pageImageMsg{token: token, page: page, img: img, err: err}
	}
}

func (m Model) savePageCmd(page int, img []byte) tea.Cmd {
	docID := m.rep.Document.DocID
	return func() tea.Msg {
		path := filepath.Join(os.TempDir(), fmt.Sprintf("pvreview-%s-page%03d.png", docID, page))
		err := os.WriteFile(path, img, 0o644)
		return pageSavedMsg{path: path, err: err}
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

// Update is the single event loop: session transitions, navigation,
// and stale-response suppression all happen here.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.sess.State() != session.Uploading && !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analyzeDoneMsg:
		return m.applyAnalyzeDone(msg), nil

	case pageImageMsg:
		return m.applyPageImage(msg), nil

	case pageSavedMsg:
		if msg.err != nil {
			m.pageErr = fmt.Sprintf("save failed: %v", msg.err)
		} else {
			m.savedPath = msg.path
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// applyAnalyzeDone resolves the Uploading state.
func (m Model) applyAnalyzeDone(msg analyzeDoneMsg) Model {
	if msg.err != nil {
		m.sess.Fail(msg.err.Error())
		m.logger.Warn("analysis failed", "error", msg.err)
		return m
	}
	if !m.sess.Succeed(msg.rep) {
		// Not uploading — a stray completion; nothing to apply to.
		return m
	}
	m.rep = msg.rep
	m.idx = report.NewIndex(msg.rep)
	m.nav = navigator.New(msg.rep.Document.Pages)
	m.rows = buildRows(msg.rep, m.idx)
	m.cursor = 0
	return m
}

// applyPageImage applies a fetch result only when it is still the most
// recently requested page (last-requested-wins).
func (m Model) applyPageImage(msg pageImageMsg) Model {
	if m.nav == nil || !m.nav.Fresh(msg.token) {
		m.logger.Debug("dropping stale page result", "page", msg.page)
		return m
	}
	m.fetching = false
	if msg.err != nil {
		m.pageErr = pageErrText(msg.err)
		m.pageImg = nil
		return m
	}
	m.pageImg = msg.img
	m.pageErr = ""
	return m
}

// pageErrText maps resolver errors to display text, keeping the
// data-integrity case visibly distinct from a transient fetch failure.
func pageErrText(err error) string {
	switch {
	case errors.Is(err, api.ErrPageNotFound):
		return "No rendered image exists for this page — the reference may point outside the document."
	case errors.Is(err, api.ErrInvalidPage):
		return "Invalid page number."
	default:
		return fmt.Sprintf("Could not load page image: %v. Press enter to retry.", err)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.done = true
		return m, tea.Quit
	}

	// Page viewer takes over navigation keys while open.
	if m.nav != nil {
		if _, open := m.nav.Page(); open {
			return m.handleViewerKey(msg)
		}
	}

	switch {
	case key.Matches(msg, m.keys.Retry):
		// Retry is a fresh submission; rejected while one is in flight.
		if m.filePath == "" {
			return m, nil
		}
		if err := m.sess.Submit(filepath.Base(m.filePath)); err != nil {
			return m, nil
		}
		m.rep = nil
		m.idx = nil
		m.nav = nil
		m.rows = nil
		return m, tea.Batch(m.spinner.Tick, m.analyzeCmd())

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		return m.openSelected(0)
	}

	// 1-9 open the Nth page reference of the selected row.
	if len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
		return m.openSelected(int(msg.Runes[0] - '1'))
	}
	return m, nil
}

// openSelected opens the refIdx-th page reference of the row under the
// cursor, if both exist.
func (m Model) openSelected(refIdx int) (tea.Model, tea.Cmd) {
	if m.sess.State() != session.Ready || m.cursor >= len(m.rows) {
		return m, nil
	}
	refs := m.rows[m.cursor].refs
	if refIdx >= len(refs) {
		return m, nil
	}
	return m.openPage(refs[refIdx].Page)
}

// openPage drives the navigator and triggers the image fetch.
func (m Model) openPage(page int) (tea.Model, tea.Cmd) {
	token, ok := m.nav.Open(page)
	if !ok {
		return m, nil
	}
	return m.refetch(token)
}

// refetch requests the image for the navigator's current page under a
// freshly issued token.
func (m Model) refetch(token int) (tea.Model, tea.Cmd) {
	page, _ := m.nav.Page()
	m.pageImg = nil
	m.pageErr = ""
	m.savedPath = ""
	m.fetching = true
	return m, tea.Batch(m.spinner.Tick, m.fetchPageCmd(token, page))
}

func (m Model) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.nav.Close()
		m.pageImg = nil
		m.pageErr = ""
		m.savedPath = ""
		m.fetching = false
		return m, nil

	case key.Matches(msg, m.keys.Next):
		if token, ok := m.nav.Next(); ok {
			return m.refetch(token)
		}
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		if token, ok := m.nav.Prev(); ok {
			return m.refetch(token)
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		// Re-open the same page: user-initiated retry after a fetch error.
		if page, open := m.nav.Page(); open && m.pageErr != "" {
			return m.openPage(page)
		}
		return m, nil

	case key.Matches(msg, m.keys.Save):
		if page, open := m.nav.Page(); open && len(m.pageImg) > 0 {
			return m, m.savePageCmd(page, m.pageImg)
		}
		return m, nil
	}
	return m, nil
}

// buildRows flattens the report into selectable rows: facts in source
// order, then verifications, then red flags sorted by severity.
func buildRows(rep *report.AnalysisReport, idx *report.Index) []row {
	rows := make([]row, 0, len(rep.Facts)+len(rep.Verifications)+len(rep.RedFlags))
	for i := range rep.Facts {
		rows = append(rows, row{kind: rowFact, fact: &rep.Facts[i], refs: idx.Facts[i]})
	}
	for i := range rep.Verifications {
		rows = append(rows, row{kind: rowVerification, verif: &rep.Verifications[i], refs: idx.Verifications[i]})
	}

	// Sort flag indices, not flags, so each row keeps the refs built
	// for its source position. Stable: equal severities keep source order.
	order := make([]int, len(rep.RedFlags))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rep.RedFlags[order[a]].Severity.Rank() < rep.RedFlags[order[b]].Severity.Rank()
	})
	for _, i := range order {
		rows = append(rows, row{kind: rowFlag, flag: &rep.RedFlags[i], refs: idx.Flags[i]})
	}
	return rows
}
