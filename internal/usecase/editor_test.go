package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"

	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/export"
	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/pkg/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeImprover struct {
	out     string
	gotText string
	gotMode ai.Mode
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeImprover) Improve(_ context.Context, text string, mode ai.Mode) string {
	f.gotText, f.gotMode = text, mode
	if f.entered != nil {
		close(f.entered)
		<-f.block
	}
	return f.out
}

type fakeAssistant struct {
	reply  ai.Reply
	gotCtx string
}

func (f *fakeAssistant) Chat(_ context.Context, _, contextSummary string) ai.Reply {
	f.gotCtx = contextSummary
	return f.reply
}

func newTestEditor(t *testing.T, kv repository.KV, imp ai.Improver, asst ai.Assistant) *Editor {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	return NewEditor(ctx, EditorDeps{
		Store:     NewDocumentStore(ctx, kv, logger),
		KV:        kv,
		Registry:  render.DefaultRegistry(logger),
		Exporter:  export.NewPipeline(nil, nil, logger),
		Improver:  imp,
		Assistant: asst,
		Logger:    logger,
	})
}

func intp(i int) *int { return &i }

func TestStepNavigationClamps(t *testing.T) {
	e := newTestEditor(t, repository.NewMemoryKV(), nil, nil)
	assert.Equal(t, StepContacts, e.Prev())
	for i := 0; i < 10; i++ {
		e.Next()
	}
	assert.Equal(t, StepFinalize, e.Step())
	assert.Equal(t, StepDesign, e.Prev())

	assert.ErrorIs(t, e.GoTo(7), ErrInvalidStep)
	assert.ErrorIs(t, e.GoTo(-1), ErrInvalidStep)
	require.NoError(t, e.GoTo(3))
	assert.Equal(t, StepSkills, e.Step())
	assert.Equal(t, "Skills", e.Step().String())
	assert.Len(t, StepNames(), StepCount)
}

func TestTemplateSelectionPersists(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	e := newTestEditor(t, kv, nil, nil)
	assert.Equal(t, render.Harvard, e.TemplateID())

	require.NoError(t, e.SelectTemplate(ctx, "galaxy"))
	e2 := newTestEditor(t, kv, nil, nil)
	assert.Equal(t, "galaxy", e2.TemplateID())

	res := e2.Preview()
	assert.True(t, res.Fallback)
	assert.Equal(t, `Template "galaxy" not found. Showing default.`, res.Notice)
}

func TestSetSkillsFromText(t *testing.T) {
	ctx := context.Background()
	e := newTestEditor(t, repository.NewMemoryKV(), nil, nil)
	require.NoError(t, e.SetSkillsFromText(ctx, " Go, ,SQL ,  Kubernetes,"))
	assert.Equal(t, []string{"Go", "SQL", "Kubernetes"}, e.Store().Document().Skills)
}

func TestSetPointsFromText(t *testing.T) {
	ctx := context.Background()
	e := newTestEditor(t, repository.NewMemoryKV(), nil, nil)
	require.NoError(t, e.SetPointsFromText(ctx, 0, "one\n\ntwo"))
	assert.Equal(t, []string{"one", "", "two"}, e.Store().Document().Experience[0].Points)
	assert.ErrorIs(t, e.SetPointsFromText(ctx, 4, "x"), ErrInvalidIndex)
}

func TestImproveSummary(t *testing.T) {
	ctx := context.Background()
	imp := &fakeImprover{out: "Sharper summary."}
	e := newTestEditor(t, repository.NewMemoryKV(), imp, nil)

	got, err := e.ImproveSummary(ctx, ai.ModeProfessional)
	require.NoError(t, err)
	assert.Equal(t, "Sharper summary.", got)
	assert.Equal(t, ai.ModeProfessional, imp.gotMode)
	assert.Contains(t, imp.gotText, "Experienced professional")
	assert.Equal(t, "Sharper summary.", e.Store().Document().Summary)
	assert.False(t, e.Improving())
}

func TestImproveExperienceDropsBlankLines(t *testing.T) {
	ctx := context.Background()
	imp := &fakeImprover{out: "- Led a team\n\n   \n- Cut costs 20%\n"}
	e := newTestEditor(t, repository.NewMemoryKV(), imp, nil)

	points, err := e.ImproveExperience(ctx, 0, ai.ModeATS)
	require.NoError(t, err)
	assert.Equal(t, []string{"- Led a team", "- Cut costs 20%"}, points)
	assert.Equal(t, points, e.Store().Document().Experience[0].Points)
	assert.Equal(t, 3, strings.Count(imp.gotText, "\n")+1)

	_, err = e.ImproveExperience(ctx, 3, ai.ModeATS)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestImproveExperienceKeepsPointsWhenResultIsBlank(t *testing.T) {
	ctx := context.Background()
	imp := &fakeImprover{out: "  \n\n"}
	e := newTestEditor(t, repository.NewMemoryKV(), imp, nil)
	require.NoError(t, e.SetPointsFromText(ctx, 0, " \n"))

	points, err := e.ImproveExperience(ctx, 0, ai.ModeGrammar)
	require.NoError(t, err)
	assert.Equal(t, []string{" ", ""}, points)
	assert.Equal(t, []string{" ", ""}, e.Store().Document().Experience[0].Points)
}

func TestImproveWithUnavailableKeepsText(t *testing.T) {
	ctx := context.Background()
	e := newTestEditor(t, repository.NewMemoryKV(), nil, nil)
	before := e.Store().Document().Summary
	got, err := e.ImproveSummary(ctx, ai.ModeGrammar)
	require.NoError(t, err)
	assert.Equal(t, before, got)
}

func TestImproveIsExclusive(t *testing.T) {
	ctx := context.Background()
	imp := &fakeImprover{out: "x", entered: make(chan struct{}), block: make(chan struct{})}
	e := newTestEditor(t, repository.NewMemoryKV(), imp, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = e.ImproveSummary(ctx, ai.ModeGrammar)
	}()
	<-imp.entered
	assert.True(t, e.Improving())
	_, err := e.ImproveExperience(ctx, 0, ai.ModeGrammar)
	assert.ErrorIs(t, err, ErrBusy)
	close(imp.block)
	wg.Wait()
	assert.False(t, e.Improving())
}

func TestChatAppliesOnlyValidHints(t *testing.T) {
	ctx := context.Background()
	asst := &fakeAssistant{reply: ai.Reply{Text: "Opening skills", NavigationStep: intp(3)}}
	e := newTestEditor(t, repository.NewMemoryKV(), nil, asst)

	res := e.Chat(ctx, "skills please")
	assert.True(t, res.Navigated)
	assert.Equal(t, StepSkills, res.Step)
	assert.Contains(t, asst.gotCtx, "Current Step Index: 0")
	assert.Contains(t, asst.gotCtx, "Name: Your Name")
	assert.Contains(t, asst.gotCtx, "Job Title: My Professional Resume")
	assert.Contains(t, asst.gotCtx, "Experience Count: 1")
	assert.Contains(t, asst.gotCtx, "Skills: JavaScript, React, Node.js, TypeScript, AWS")

	for _, hint := range []*int{intp(7), intp(-2), intp(99), nil} {
		asst.reply = ai.Reply{Text: "hmm", NavigationStep: hint}
		res = e.Chat(ctx, "go somewhere")
		assert.False(t, res.Navigated)
		assert.Equal(t, StepSkills, res.Step)
		assert.Equal(t, "hmm", res.Reply.Text)
	}
}

func TestChatUnavailable(t *testing.T) {
	e := newTestEditor(t, repository.NewMemoryKV(), nil, nil)
	res := e.Chat(context.Background(), "hi")
	assert.Equal(t, ai.MissingKeyText, res.Reply.Text)
	assert.False(t, res.Navigated)
}

func TestSettingsAreNormalized(t *testing.T) {
	e := newTestEditor(t, repository.NewMemoryKV(), nil, nil)
	assert.Equal(t, model.DefaultSettings(), e.Settings())
	s := e.UpdateSettings(model.DownloadSettings{FontSize: "tiny", Margins: model.MarginsWide, ShowSkills: true})
	assert.Equal(t, model.FontMedium, s.FontSize)
	assert.Equal(t, model.MarginsWide, e.Settings().Margins)
	assert.NotContains(t, e.Preview().HTML, "TechCorp Inc.")
}

func TestExportWord(t *testing.T) {
	ctx := context.Background()
	e := newTestEditor(t, repository.NewMemoryKV(), nil, nil)
	f, err := e.Export(ctx, export.FormatWord)
	require.NoError(t, err)
	assert.Equal(t, "my_professional_resume.doc", f.Name)
	assert.Contains(t, string(f.Data), "Your Name")
	assert.False(t, e.Exporting())
}
