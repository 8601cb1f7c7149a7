// Command blackjack trains the Monte Carlo and Q-learning agents by
// self-play, evaluates each over a batch of games, and reports win rates.
// With -policy-chart it also renders the learned Q-learning policy as an
// HTML heatmap.
//
// Progress logging uses glog; run with -v=1 -logtostderr to see it.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/golang/glog"
	"github.com/logrusorgru/aurora"
	"github.com/seehuhn/mt19937"

	rl "blackjack-rl"
	"blackjack-rl/blackjack"
)

var (
	episodes = flag.Int("episodes", 500000, "training episodes per agent")
	games    = flag.Int("games", 100000, "evaluation games per agent")
	seed     = flag.Int64("seed", 0, "RNG seed; 0 seeds from the clock")
	alpha    = flag.Float64("alpha", 0.1, "Q-learning step size")
	gamma    = flag.Float64("gamma", 0.9, "Q-learning discount factor")
	epsilon  = flag.Float64("epsilon", 0.1, "Q-learning exploration rate")
	chartOut = flag.String("policy-chart", "", "write the learned Q-learning policy heatmap to this HTML file")
)

func main() {
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	glog.V(1).Infof("seed: %d", *seed)

	mc := rl.NewMonteCarlo(newRand(*seed))
	mcRate, err := run("monte carlo", mc, *episodes, *games)
	if err != nil {
		glog.Exitf("monte carlo: %v", err)
	}

	ql := rl.NewQLearning(float32(*alpha), float32(*gamma), float32(*epsilon), newRand(*seed+1))
	qlRate, err := run("q-learning", ql, *episodes, *games)
	if err != nil {
		glog.Exitf("q-learning: %v", err)
	}

	fmt.Printf("Monte Carlo agent win rate: %.2f%%, Q-learning agent win rate: %.2f%%\n",
		mcRate, qlRate)

	if *chartOut != "" {
		if err := writePolicyChart(*chartOut, ql); err != nil {
			glog.Exitf("policy chart: %v", err)
		}
		fmt.Println("policy chart written to", *chartOut)
	}
}

func newRand(seed int64) *rand.Rand {
	src := mt19937.New()
	src.Seed(seed)
	return rand.New(src)
}

func run(name string, agent rl.Agent, episodes, games int) (float64, error) {
	if err := agent.Train(episodes); err != nil {
		return 0, err
	}

	var wins, losses, draws int
	for i := 0; i < games; i++ {
		result, err := agent.Play()
		if err != nil {
			return 0, err
		}
		switch result {
		case blackjack.Win:
			wins++
		case blackjack.Loss:
			losses++
		default:
			draws++
		}
	}

	fmt.Printf("%s: %s %s %s\n", name,
		aurora.Green(fmt.Sprintf("wins: %d", wins)),
		aurora.Red(fmt.Sprintf("losses: %d", losses)),
		aurora.Blue(fmt.Sprintf("draws: %d", draws)))

	rate := 100 * float64(wins) / float64(games)
	fmt.Printf("%s win rate: %.2f%%\n", name, rate)
	return rate, nil
}

// writePolicyChart renders the greedy action per state as a heatmap, one cell
// per (player sum, dealer card) with the hard- and soft-hand policies side by
// side along the y axis.
func writePolicyChart(path string, ql *rl.QLearning) error {
	const minSum, maxSum = 4, 21

	var sums []string
	for sum := minSum; sum <= maxSum; sum++ {
		sums = append(sums, fmt.Sprintf("%d", sum))
	}
	var rows []string
	for ace := 0; ace < 2; ace++ {
		for dealer := 2; dealer <= 11; dealer++ {
			label := fmt.Sprintf("dealer %d", dealer)
			if ace == 1 {
				label += " (soft)"
			}
			rows = append(rows, label)
		}
	}

	var cells []opts.HeatMapData
	for ace := 0; ace < 2; ace++ {
		for dealer := 2; dealer <= 11; dealer++ {
			for sum := minSum; sum <= maxSum; sum++ {
				s := rl.State{PlayerSum: sum, DealerCard: dealer, UsableAce: ace}
				hit := 0
				if ql.Value(s, blackjack.Hit) > ql.Value(s, blackjack.Stay) {
					hit = 1
				}
				row := ace*10 + dealer - 2
				cells = append(cells, opts.HeatMapData{
					Value: [3]interface{}{sum - minSum, row, hit},
				})
			}
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "learned policy (1 = hit, 0 = stay)",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category",
			Data: rows,
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min: 0,
			Max: 1,
		}),
	)
	hm.SetXAxis(sums)
	hm.AddSeries("policy", cells)

	page := components.NewPage()
	page.AddCharts(hm)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}
