package experiment_test

import (
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
	env "sfneuman.com/govss/environment"
	"sfneuman.com/govss/experiment"
	"sfneuman.com/govss/experiment/tracker"
	ts "sfneuman.com/govss/timestep"
)

// fakeEnv is an Environment whose episodes always last episodeLen
// steps and pay a reward of 1 per step
type fakeEnv struct {
	episodeLen int
	lastStep   ts.TimeStep
	resets     int
}

func (f *fakeEnv) Reset() (ts.TimeStep, error) {
	f.resets++
	f.lastStep = ts.New(ts.First, 0, 1, mat.NewVecDense(1, nil), 0)
	return f.lastStep, nil
}

func (f *fakeEnv) Step(*mat.VecDense) (ts.TimeStep, bool, error) {
	stepType := ts.Mid
	if f.lastStep.Number+1 >= f.episodeLen {
		stepType = ts.Last
	}
	f.lastStep = ts.New(stepType, 1, 1, mat.NewVecDense(1, nil),
		f.lastStep.Number+1)
	return f.lastStep, f.lastStep.Last(), nil
}

func (f *fakeEnv) LastTimeStep() ts.TimeStep { return f.lastStep }

func (f *fakeEnv) spec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	low := mat.NewVecDense(1, []float64{-1})
	up := mat.NewVecDense(1, []float64{1})
	return env.NewSpec(shape, env.Action, low, up, env.Continuous)
}

func (f *fakeEnv) RewardSpec() env.Spec      { return f.spec() }
func (f *fakeEnv) DiscountSpec() env.Spec    { return f.spec() }
func (f *fakeEnv) ObservationSpec() env.Spec { return f.spec() }
func (f *fakeEnv) ActionSpec() env.Spec      { return f.spec() }

// fixedAgent always selects the zero action and learns nothing
type fixedAgent struct{}

func (fixedAgent) SelectAction(ts.TimeStep) *mat.VecDense {
	return mat.NewVecDense(1, nil)
}
func (fixedAgent) Step() error                          { return nil }
func (fixedAgent) Observe(mat.Vector, ts.TimeStep) error { return nil }
func (fixedAgent) ObserveFirst(ts.TimeStep) error        { return nil }
func (fixedAgent) EndEpisode()                           {}

func TestOnlineRunsToStepLimit(t *testing.T) {
	environment := &fakeEnv{episodeLen: 5}
	filename := filepath.Join(t.TempDir(), "returns.bin")
	returns := tracker.NewReturn(filename)

	e := experiment.NewOnline(environment, fixedAgent{}, 12, returns)
	if err := e.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	e.Save()

	// 12 steps at 5 steps per episode: two full episodes and one
	// truncated third
	if environment.resets != 3 {
		t.Errorf("expected 3 episodes, got %v", environment.resets)
	}

	data, err := tracker.LoadData(filename)
	if err != nil {
		t.Fatalf("loadData: %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("expected 2 completed episodes, got %v", len(data))
	}
	for i, ret := range data {
		if ret != 5 {
			t.Errorf("episode %v: expected return 5, got %v", i, ret)
		}
	}
}
