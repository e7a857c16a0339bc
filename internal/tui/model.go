package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tweetsent/internal/classifier"
	"tweetsent/internal/domain"
	"tweetsent/internal/features"
	"tweetsent/internal/pipeline"
)

// SentimentPort is the TUI-facing subset of the sentiment service.
type SentimentPort interface {
	Corpus() *domain.Corpus
	Preprocess() (*pipeline.Result, error)
	Extract() (*features.Extraction, error)
	Evaluate() (*classifier.Report, error)
	Predict(text string) (*domain.Prediction, error)
	Preprocessed() *pipeline.Result
	Extraction() *features.Extraction
	Report() *classifier.Report
}

type page int

const (
	pageData page = iota
	pagePreprocessing
	pageTFIDF
	pageEvaluation
	pagePredict
	pageCount
)

var pageTitles = [pageCount]string{"Data", "Preprocessing", "TF-IDF", "Evaluation", "Predict"}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service    SentimentPort
	input      textinput.Model
	viewport   viewport.Model
	page       page
	status     string
	ready      bool
	result     *pipeline.Result
	extraction *features.Extraction
	report     *classifier.Report
	prediction *domain.Prediction
}

// New creates a new TUI model instance.
func New(service SentimentPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a tweet and press Enter"
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, status: "Tab/Shift+Tab to switch pages, Ctrl+C to quit."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, bh := bodyBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + ih + 1 // tabs, status, input box
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-bh)
		m.viewport.SetContent(m.renderPage())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			return m.switchTo((m.page + 1) % pageCount), nil
		case "shift+tab":
			return m.switchTo((m.page + pageCount - 1) % pageCount), nil
		}
		if m.page == pagePredict {
			if msg.Type == tea.KeyEnter {
				m.predict(strings.TrimSpace(m.input.Value()))
				m.viewport.SetContent(m.renderPage())
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "1", "2", "3", "4", "5":
			return m.switchTo(page(msg.String()[0] - '1')), nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// switchTo moves to p, running the stage it displays if needed.
func (m Model) switchTo(p page) Model {
	m.page = p
	m.status = ""
	var err error
	switch p {
	case pagePreprocessing:
		if m.result = m.service.Preprocessed(); m.result == nil {
			m.result, err = m.service.Preprocess()
		}
	case pageTFIDF:
		if m.extraction = m.service.Extraction(); m.extraction == nil {
			m.extraction, err = m.service.Extract()
		}
	case pageEvaluation:
		if m.report = m.service.Report(); m.report == nil {
			m.report, err = m.service.Evaluate()
		}
	}
	if err != nil {
		m.status = "Error: " + err.Error()
	}
	if p == pagePredict {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	m.viewport.SetContent(m.renderPage())
	m.viewport.GotoTop()
	return m
}

func (m *Model) predict(text string) {
	if text == "" {
		return
	}
	p, err := m.service.Predict(text)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.prediction = nil
		return
	}
	m.prediction = p
	m.status = fmt.Sprintf("Predicted %q", p.Label)
}

// View renders the TUI layout and current page.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	tabs := make([]string, len(pageTitles))
	for i, title := range pageTitles {
		label := fmt.Sprintf("%d %s", i+1, title)
		if page(i) == m.page {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	header := headerStyle.Render("Tweet Sentiment") + "  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	body := bodyBoxStyle.Render(m.viewport.View())
	status := statusStyle.Render(m.status)
	if m.page == pagePredict {
		return header + "\n" + body + "\n" + inputBoxStyle.Render(m.input.View()) + "\n" + status
	}
	return header + "\n" + body + "\n" + status
}

func (m Model) renderPage() string {
	switch m.page {
	case pageData:
		return renderCorpus(m.service.Corpus())
	case pagePreprocessing:
		return renderPreprocessing(m.result)
	case pageTFIDF:
		return renderTFIDF(m.extraction)
	case pageEvaluation:
		return renderReport(m.report)
	case pagePredict:
		return renderPrediction(m.prediction)
	}
	return ""
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("11"))
	bodyBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
)
