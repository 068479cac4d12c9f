package opt

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

type campaignState int

const (
	stateUninitialized campaignState = iota
	stateRunning
	stateDone
)

// Campaign orchestrates the closed optimization loop: an initial
// space-filling design, then NumBatches rounds of
// {fit surrogates -> record diagnostics -> propose -> evaluate -> append}.
//
// The campaign exclusively owns its History and Diagnostics; both are only
// ever extended by whole rounds, so a failed round leaves no partial
// entries. Surrogate models are transient: refit from scratch on the full
// history each round and discarded when the round ends.
type Campaign struct {
	cfg      RunConfig
	space    *DesignSpace
	oracle   Oracle
	fitter   SurrogateFitter
	designer InitialDesigner
	proposer Proposer

	rng         *PartitionedRNG
	history     *History
	diagnostics *Diagnostics
	round       int
	state       campaignState
}

// NewCampaign validates the configuration and wires the loop with the
// default Latin-hypercube designer and Thompson-sampling proposer.
func NewCampaign(cfg RunConfig, space *DesignSpace, oracle Oracle, fitter SurrogateFitter) (*Campaign, error) {
	if cfg.NumObjectives == 0 {
		cfg.NumObjectives = 2
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if space == nil || space.Len() == 0 {
		return nil, fmt.Errorf("%w: empty design space", ErrInvalidDesignSpace)
	}
	if space.Dim() != cfg.NumFeatureDimensions {
		return nil, fmt.Errorf("design space has %d feature dimensions, config says %d", space.Dim(), cfg.NumFeatureDimensions)
	}
	if oracle == nil || fitter == nil {
		return nil, fmt.Errorf("oracle and fitter are required")
	}
	return &Campaign{
		cfg:         cfg,
		space:       space,
		oracle:      oracle,
		fitter:      fitter,
		designer:    LatinDesigner{},
		proposer:    ThompsonProposer{},
		rng:         NewPartitionedRNG(NewCampaignKey(cfg.Seed)),
		history:     NewHistory(cfg.NumFeatureDimensions, cfg.NumObjectives),
		diagnostics: NewDiagnostics(cfg.NumObjectives, cfg.NumFeatureDimensions),
	}, nil
}

// SetDesigner replaces the initial designer. Must be called before Run.
func (c *Campaign) SetDesigner(d InitialDesigner) { c.designer = d }

// SetProposer replaces the batch proposer. Must be called before Run.
func (c *Campaign) SetProposer(p Proposer) { c.proposer = p }

// History returns the campaign's observation history.
func (c *Campaign) History() *History { return c.history }

// Diagnostics returns the per-round surrogate diagnostics.
func (c *Campaign) Diagnostics() *Diagnostics { return c.diagnostics }

// Run executes the full campaign and returns the diagnostics sequence. A
// campaign runs once; rounds never restart or rewind.
func (c *Campaign) Run() (*Diagnostics, error) {
	if c.state != stateUninitialized {
		return nil, fmt.Errorf("campaign has already run")
	}
	c.state = stateRunning

	if err := c.runInitialDesign(); err != nil {
		return nil, err
	}
	for k := 1; k <= c.cfg.NumBatches; k++ {
		if err := c.runRound(k); err != nil {
			return nil, fmt.Errorf("round %d: %w", k, err)
		}
	}
	// No refit after the final round's batch: the last models' post-hoc
	// quality is only computed if the caller asks via DiagnosticsPass.
	c.state = stateDone
	logrus.Infof("campaign complete: %d observations over %d rounds", c.history.Len(), c.cfg.NumBatches)
	return c.diagnostics, nil
}

// runInitialDesign seeds the history with a space-filling batch. Design
// failures surface before any oracle call.
func (c *Campaign) runInitialDesign() error {
	design, err := c.designer.Generate(c.space, c.cfg.BatchSize, c.rng.ForSubsystem(SubsystemDesign))
	if err != nil {
		return err
	}
	obs, err := c.evaluate(design, 0)
	if err != nil {
		return err
	}
	if err := c.history.AppendBatch(obs); err != nil {
		return err
	}
	logrus.Infof("initial design evaluated: %d observations", c.history.Len())
	return nil
}

// runRound executes one optimization round in strict order: fit the
// surrogate pair on the pre-round history, snapshot its diagnostics, propose
// and evaluate a batch, then extend diagnostics and history together. The
// diagnostics describe the models that generated the proposal, not the
// models after absorbing it.
func (c *Campaign) runRound(k int) error {
	models, rec, err := c.fitSurrogates()
	if err != nil {
		return err
	}

	proposal, err := c.proposer.Propose(models, c.space, c.history, c.cfg.BatchSize, c.rng.ForSubsystem(SubsystemProposal))
	if err != nil {
		return err
	}
	if err := c.checkProposal(proposal); err != nil {
		return err
	}

	obs, err := c.evaluate(proposal, k)
	if err != nil {
		return err
	}

	if err := c.diagnostics.Append(rec); err != nil {
		return err
	}
	if err := c.history.AppendBatch(obs); err != nil {
		return err
	}
	c.round = k
	logrus.Debugf("round %d complete: history now %d observations", k, c.history.Len())
	return nil
}

// fitSurrogates refits one model per objective on the current history and
// snapshots their diagnostics. A non-converging fit is retried up to
// FitRetries times with fresh initialization draws before becoming fatal.
func (c *Campaign) fitSurrogates() ([]SurrogateModel, RoundDiagnostics, error) {
	x := c.history.X()
	fitRNG := c.rng.ForSubsystem(SubsystemModel)

	models := make([]SurrogateModel, c.cfg.NumObjectives)
	rec := RoundDiagnostics{
		Lengthscales:   make([][]float64, c.cfg.NumObjectives),
		LogLikelihoods: make([]float64, c.cfg.NumObjectives),
		LOOErrors:      make([]float64, c.cfg.NumObjectives),
	}
	for j := 0; j < c.cfg.NumObjectives; j++ {
		y := c.history.YColumn(j)

		var model SurrogateModel
		var err error
		for attempt := 0; attempt <= c.cfg.FitRetries; attempt++ {
			if attempt > 0 {
				logrus.Warnf("refitting objective %d (attempt %d/%d): %v", j, attempt, c.cfg.FitRetries, err)
			}
			model, err = c.fitter.Fit(x, y, fitRNG)
			if err == nil {
				break
			}
		}
		if err != nil {
			return nil, RoundDiagnostics{}, &ModelFitError{Objective: j, Err: err}
		}
		if err := checkModel(model, c.cfg.NumFeatureDimensions); err != nil {
			return nil, RoundDiagnostics{}, &ModelFitError{Objective: j, Err: err}
		}

		models[j] = model
		rec.Lengthscales[j] = model.Lengthscales()
		rec.LogLikelihoods[j] = model.LogLikelihood()
		rec.LOOErrors[j] = model.LeaveOneOutError()
	}
	return models, rec, nil
}

// evaluate runs the oracle over a batch, deriving one rng substream per
// candidate so concurrent evaluation stays reproducible.
func (c *Campaign) evaluate(batch []Candidate, round int) ([]Observation, error) {
	streams := make([]*rand.Rand, len(batch))
	for i := range batch {
		streams[i] = c.rng.ForSubsystem(SubsystemEvaluation(round, i))
	}
	obs, err := EvaluateBatch(c.oracle, batch, streams, c.cfg.MaxParallelEvals)
	if err != nil {
		return nil, err
	}
	// Catch a misbehaving oracle before any append: once a round starts
	// extending diagnostics and history, neither append may fail.
	for _, o := range obs {
		if len(o.Objectives) != c.cfg.NumObjectives {
			return nil, &OracleError{
				Key: o.Candidate.Key,
				Err: fmt.Errorf("returned %d objectives, want %d", len(o.Objectives), c.cfg.NumObjectives),
			}
		}
	}
	return obs, nil
}

// checkProposal enforces the proposer contract: exact batch size, every
// candidate a member of the design space.
func (c *Campaign) checkProposal(proposal []Candidate) error {
	if len(proposal) != c.cfg.BatchSize {
		return fmt.Errorf("proposer returned %d candidates, want %d", len(proposal), c.cfg.BatchSize)
	}
	for _, cand := range proposal {
		if _, ok := c.space.Candidate(cand.Key); !ok {
			return fmt.Errorf("proposed candidate %q is not in the design space", cand.Key)
		}
	}
	return nil
}

// checkModel enforces the surrogate contract on a fresh fit: D positive
// finite lengthscales and a finite likelihood.
func checkModel(model SurrogateModel, dims int) error {
	ls := model.Lengthscales()
	if len(ls) != dims {
		return fmt.Errorf("model reports %d lengthscales, want %d", len(ls), dims)
	}
	for i, v := range ls {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("lengthscale %d is %v", i, v)
		}
	}
	if ll := model.LogLikelihood(); math.IsNaN(ll) {
		return fmt.Errorf("log likelihood is NaN")
	}
	return nil
}

// DiagnosticsPass fits a fresh surrogate pair on the final history and
// returns its snapshot without recording it. This is the explicit extra
// pass for callers who want the last round's post-hoc model quality.
func (c *Campaign) DiagnosticsPass() (RoundDiagnostics, error) {
	if c.state != stateDone {
		return RoundDiagnostics{}, fmt.Errorf("campaign has not finished")
	}
	_, rec, err := c.fitSurrogates()
	return rec, err
}
