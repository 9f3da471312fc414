package report

import (
	"context"
	"strconv"
	"sync"
	"time"

	"covid-report/internal/dataset"
	"covid-report/internal/logging"
	"covid-report/internal/model"
)

const (
	topRankingSize = 10
	previewRows    = 5
)

// Engine owns the shared read-only data context: cleaned tables built once,
// rebuilt only by an explicit refresh. Views are computed per request from
// that context.
type Engine struct {
	loader *dataset.Loader

	mu  sync.RWMutex
	cur *state
}

// state is one immutable build of the data context.
type state struct {
	ts       model.TimeSeriesTable
	snap     model.SnapshotTable
	cleaning model.CleaningReport
	previews []model.DatasetPreview
	builtAt  time.Time
}

// viewBuilders maps each view to the function producing its payload.
var viewBuilders = map[model.ViewName]func(*state) model.ViewPayload{
	model.ViewOverview:        buildOverview,
	model.ViewCleaning:        buildCleaning,
	model.ViewEDA:             buildEDA,
	model.ViewInsights:        buildInsights,
	model.ViewRecommendations: buildRecommendations,
}

func NewEngine(loader *dataset.Loader) *Engine {
	return &Engine{loader: loader}
}

// RenderableFor returns the payload for one view, building the data context
// on first use. Fails with model.ErrUnknownView for unsupported names and
// model.ErrDataUnavailable when the sources cannot be read.
func (e *Engine) RenderableFor(ctx context.Context, name string) (model.ViewPayload, error) {
	view, err := model.ParseViewName(name)
	if err != nil {
		return model.ViewPayload{}, err
	}

	st, err := e.ensure(ctx)
	if err != nil {
		return model.ViewPayload{}, err
	}
	return viewBuilders[view](st), nil
}

// Refresh re-reads storage, cleans and swaps in a fresh data context.
// onStage, when non-nil, observes each stage transition.
func (e *Engine) Refresh(ctx context.Context, onStage func(status string)) (model.CleaningReport, error) {
	st, err := e.build(ctx, true, onStage)
	if err != nil {
		return model.CleaningReport{}, err
	}
	return st.cleaning, nil
}

// ensure returns the current data context, building it from the memoized
// loader on first access.
func (e *Engine) ensure(ctx context.Context) (*state, error) {
	e.mu.RLock()
	if e.cur != nil {
		st := e.cur
		e.mu.RUnlock()
		return st, nil
	}
	e.mu.RUnlock()
	return e.build(ctx, false, nil)
}

func (e *Engine) build(ctx context.Context, reload bool, onStage func(status string)) (*state, error) {
	note := func(status string) {
		if onStage != nil {
			onStage(status)
		}
	}

	note(model.RunLoading)
	load := e.loader.Load
	if reload {
		load = e.loader.Reload
	}
	rawTS, rawSnap, err := load(ctx)
	if err != nil {
		return nil, err
	}

	note(model.RunCleaning)
	ts, snap, cleaning := dataset.Clean(rawTS, rawSnap)

	note(model.RunAggregating)
	st := &state{
		ts:       ts,
		snap:     snap,
		cleaning: cleaning,
		previews: buildPreviews(rawTS, rawSnap),
		builtAt:  time.Now().UTC(),
	}

	e.mu.Lock()
	e.cur = st
	e.mu.Unlock()

	logging.Info().
		Int("countries", len(snap)).
		Int("time_series_rows", len(ts)).
		Msg("data context built")
	return st, nil
}

func buildOverview(st *state) model.ViewPayload {
	return model.ViewPayload{
		Name:        model.ViewOverview,
		GeneratedAt: st.builtAt,
		Previews:    st.previews,
	}
}

func buildCleaning(st *state) model.ViewPayload {
	cleaning := st.cleaning
	return model.ViewPayload{
		Name:        model.ViewCleaning,
		GeneratedAt: st.builtAt,
		Cleaning:    &cleaning,
	}
}

func buildEDA(st *state) model.ViewPayload {
	eda := &model.EDATables{
		MonthlyTrend:      MonthlyGlobalTrend(st.ts),
		TopConfirmed:      TopN(st.snap, TotalCases, topRankingSize),
		TopDeaths:         TopN(st.snap, TotalDeaths, topRankingSize),
		TopRecovered:      TopN(st.snap, TotalRecovered, topRankingSize),
		ContinentCFR:      ContinentMean(st.snap, CaseFatality),
		ContinentRecovery: ContinentMean(st.snap, Recovery),
		CountryCFR:        CountryRatio(st.snap, CaseFatality),
		TestsVersusCases:  TestsVersusCases(st.snap),
		DailyNew:          DailyGlobalNewCounts(st.ts),
	}
	if fit, ok := FitLine(eda.TestsVersusCases); ok {
		eda.TestsCasesFit = &fit
	}
	return model.ViewPayload{
		Name:        model.ViewEDA,
		GeneratedAt: st.builtAt,
		EDA:         eda,
		Narrative:   edaInsights,
	}
}

func buildInsights(st *state) model.ViewPayload {
	return model.ViewPayload{
		Name:        model.ViewInsights,
		GeneratedAt: st.builtAt,
		Narrative:   insightItems,
	}
}

func buildRecommendations(st *state) model.ViewPayload {
	return model.ViewPayload{
		Name:        model.ViewRecommendations,
		GeneratedAt: st.builtAt,
		Narrative:   recommendationItems,
	}
}

func buildPreviews(ts model.RawTimeSeries, snap model.RawSnapshot) []model.DatasetPreview {
	tsPreview := model.DatasetPreview{
		Name:      "full_grouped",
		Columns:   []string{"Country/Region", "Date", "Confirmed", "Deaths", "Recovered", "New cases", "New deaths", "New recovered"},
		TotalRows: len(ts),
	}
	for i := 0; i < len(ts) && i < previewRows; i++ {
		r := ts[i]
		tsPreview.Rows = append(tsPreview.Rows, []string{
			r.Country,
			r.Date.Format("2006-01-02"),
			strconv.FormatInt(r.Confirmed, 10),
			strconv.FormatInt(r.Deaths, 10),
			strconv.FormatInt(r.Recovered, 10),
			formatOptional(r.NewCases),
			formatOptional(r.NewDeaths),
			formatOptional(r.NewRecovered),
		})
	}

	snapPreview := model.DatasetPreview{
		Name:      "worldometer_data",
		Columns:   []string{"Country/Region", "Continent", "TotalCases", "TotalDeaths", "TotalRecovered", "TotalTests"},
		TotalRows: len(snap),
	}
	for i := 0; i < len(snap) && i < previewRows; i++ {
		r := snap[i]
		snapPreview.Rows = append(snapPreview.Rows, []string{
			r.Country,
			r.Continent,
			strconv.FormatInt(r.TotalCases, 10),
			formatOptional(r.TotalDeaths),
			formatOptional(r.TotalRecovered),
			formatOptional(r.TotalTests),
		})
	}

	return []model.DatasetPreview{tsPreview, snapPreview}
}

func formatOptional(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
