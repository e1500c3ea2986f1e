package main

import (
	"fmt"
	"log"

	"sfneuman.com/govss/agent/random"
	"sfneuman.com/govss/environment/envconfig"
	"sfneuman.com/govss/environment/vss"
	"sfneuman.com/govss/experiment"
	"sfneuman.com/govss/experiment/tracker"
	"sfneuman.com/govss/utils/progressbar"
)

func main() {
	var seed uint64 = 192382

	// Create the environment
	config := envconfig.Default(envconfig.VSSStrat)
	env, _, err := config.Create(seed)
	if err != nil {
		log.Fatal(err)
	}

	// Random baseline agent
	a := random.New(env.ActionSpec(), seed)

	// Experiment
	returns := tracker.NewReturn("./returns.bin")
	components := tracker.NewComponentReturn("./components.bin",
		vss.NumRewards)
	e := experiment.NewOnline(env, a, 10*uint(vss.EpisodeSteps),
		returns, components)
	if err := e.Run(); err != nil {
		log.Fatal(err)
	}
	e.Save()

	data, err := tracker.LoadData("./returns.bin")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("episodic returns:", data)

	// Run one more episode step by step, then render its final frame
	step, err := env.Reset()
	if err != nil {
		log.Fatal(err)
	}
	bar := progressbar.New(50, vss.EpisodeSteps)
	for !step.Last() {
		step, _, err = env.Step(a.SelectAction(step))
		if err != nil {
			log.Fatal(err)
		}
		bar.Increment()
	}
	bar.Close()

	fmt.Printf("final step: %v\n", step)
	fmt.Printf("goal blue: %v  goal yellow: %v\n",
		step.Info[vss.InfoGoalBlue], step.Info[vss.InfoGoalYellow])

	if v, ok := env.(*vss.Env); ok {
		if err := v.Render("./match.png"); err != nil {
			log.Fatal(err)
		}
	}
}
