package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Swarm-Sense/internal/config"
	"github.com/Garsondee/Swarm-Sense/internal/swarm"
)

type runOptions struct {
	count    int
	group    int
	ticks    int
	shrinkTo int
	capacity int
	alpha    float64
	outline  swarm.Outline
	verbose  bool
}

type runStats struct {
	kind     swarm.FormationKind
	count    int
	group    int
	shrinkTo int

	settleFrame       int // frame of the first settle, -1 if never
	shrinkSettleTicks int // ticks from the shrink to the next settle, -1 if never or no shrink

	settleWorst float64 // worst distance when the last settle was logged
	meanDist    float64
	worstDist   float64
	extent      swarm.Vec3 // bounding box size of the active targets

	spawned   int
	retired   int
	dropped   int
	replans   int
	highWater int
	liveEnd   int
	activeEnd int

	events int
}

func main() {
	var configPath string
	var formation string
	var count, group, ticks, shrinkTo int
	var verbose bool

	flag.StringVar(&configPath, "config", "", "YAML run configuration (formation, integrator, outline)")
	flag.StringVar(&formation, "formation", "all", "formation name, comma-separated list, or \"all\"")
	flag.IntVar(&count, "count", 0, "agent count (default from config)")
	flag.IntVar(&group, "group", 0, "delta group size (default from config)")
	flag.IntVar(&ticks, "ticks", 1200, "maximum ticks per phase")
	flag.IntVar(&shrinkTo, "shrink-to", 0, "after settling, shrink to this count and measure retirement (0 = skip)")
	flag.BoolVar(&verbose, "verbose", false, "record per-frame positions and print the event log")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
	}
	if count <= 0 {
		count = cfg.Formation.Count
	}
	if group <= 0 {
		group = cfg.Formation.GroupSize
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		os.Exit(1)
	}
	kinds, err := parseFormations(formation)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	outline, err := cfg.BuildOutline()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	opts := runOptions{
		count:    count,
		group:    group,
		ticks:    ticks,
		shrinkTo: shrinkTo,
		capacity: cfg.Integrator.Capacity,
		alpha:    cfg.Integrator.Alpha,
		outline:  outline,
		verbose:  verbose,
	}

	fmt.Printf("=== Headless Formation Report ===\n")
	fmt.Printf("formations=%d count=%d group=%d ticks=%d shrink_to=%d alpha=%.4f capacity=%d\n\n",
		len(kinds), count, group, ticks, shrinkTo, opts.alpha, opts.capacity)

	all := make([]runStats, 0, len(kinds))
	for _, kind := range kinds {
		stats, ts := runFormation(kind, opts)
		all = append(all, stats)
		printRun(stats)
		if verbose {
			fmt.Print(ts.Log.Format())
			fmt.Println()
		}
	}

	printAggregate(all)
}

// parseFormations accepts "all", one formation name, or a comma-separated list.
func parseFormations(s string) ([]swarm.FormationKind, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return swarm.AllFormations(), nil
	}
	var kinds []swarm.FormationKind
	for _, name := range strings.Split(s, ",") {
		k, err := swarm.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func runFormation(kind swarm.FormationKind, o runOptions) (runStats, *swarm.TestSwarm) {
	ts := swarm.NewTestSwarm(
		swarm.WithSlots(o.capacity),
		swarm.WithEasing(o.alpha),
		swarm.WithOutline(o.outline),
		swarm.WithVerbose(o.verbose),
		swarm.WithRequest(o.count, kind, o.group),
	)
	settled := func(ts *swarm.TestSwarm) bool { return ts.Integrator.Settled() }
	ts.RunUntil(settled, o.ticks)

	rs := runStats{
		kind:              kind,
		count:             ts.Integrator.Request().Count,
		group:             ts.Integrator.Request().GroupSize,
		shrinkTo:          o.shrinkTo,
		shrinkSettleTicks: -1,
	}
	rs.settleFrame = firstFrame(ts.Log, "formation", "settled")

	if o.shrinkTo > 0 && o.shrinkTo < rs.count {
		start := ts.CurrentFrame()
		// Kinds come from ParseKind, so the request cannot be rejected.
		_ = ts.Reconfigure(o.shrinkTo, kind, o.group)
		if f := ts.RunUntil(settled, o.ticks); f >= 0 {
			rs.shrinkSettleTicks = f - start
		}
	}

	if ev, ok := ts.Log.LastOf("formation", "settled"); ok {
		rs.settleWorst = ev.NumVal
	}
	rs.meanDist, rs.worstDist = ts.Integrator.Convergence()
	rs.extent = targetExtent(ts.Integrator)
	rs.spawned = sumAgents(ts.Log, "agent", "spawned")
	rs.retired = sumAgents(ts.Log, "agent", "retired")
	rs.dropped = sumAgents(ts.Log, "agent", "dropped")
	rs.replans = ts.Log.CountCategory("request", "applied")
	rs.highWater = ts.Integrator.HighWater()
	rs.liveEnd = ts.Integrator.Live()
	rs.activeEnd = ts.Last().ActiveCount()
	rs.events = len(ts.Log.Events())
	return rs, ts
}

// firstFrame returns the frame of the first event matching category and
// key, or -1.
func firstFrame(el *swarm.EventLog, category, key string) int {
	events := el.Filter(category, key)
	if len(events) == 0 {
		return -1
	}
	return events[0].Frame
}

// sumAgents totals the agent counts carried by swarm-wide summary events.
// Per-agent verbose entries are skipped so they are not double counted.
func sumAgents(el *swarm.EventLog, category, key string) int {
	total := 0
	for _, e := range el.Filter(category, key) {
		if e.Agent == "--" {
			total += int(e.NumVal)
		}
	}
	return total
}

// targetExtent is the bounding box size of every active agent's target.
func targetExtent(in *swarm.Integrator) swarm.Vec3 {
	lo := swarm.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := swarm.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	n := 0
	for i := 0; i < in.Live(); i++ {
		if !in.Active(i) {
			continue
		}
		t, _ := in.Target(i)
		for a := 0; a < 3; a++ {
			lo[a] = math.Min(lo[a], t[a])
			hi[a] = math.Max(hi[a], t[a])
		}
		n++
	}
	if n == 0 {
		return swarm.Vec3{}
	}
	return hi.Sub(lo)
}

func printRun(rs runStats) {
	fmt.Printf("--- %s n=%d group=%d ---\n", rs.kind, rs.count, rs.group)
	fmt.Printf("settle_frame=%s settle_worst=%.3f final_distance: mean=%.3f worst=%.3f\n",
		frameString(rs.settleFrame), rs.settleWorst, rs.meanDist, rs.worstDist)
	fmt.Printf("extent: x=%.2f y=%.2f z=%.2f\n", rs.extent[0], rs.extent[1], rs.extent[2])
	fmt.Printf("agents: spawned=%d retired=%d dropped=%d high_water=%d live=%d active=%d replans=%d\n",
		rs.spawned, rs.retired, rs.dropped, rs.highWater, rs.liveEnd, rs.activeEnd, rs.replans)
	if rs.shrinkTo > 0 && rs.shrinkTo < rs.count {
		fmt.Printf("shrink: to=%d settle_ticks=%s\n", rs.shrinkTo, frameString(rs.shrinkSettleTicks))
	}
	fmt.Printf("events=%d\n\n", rs.events)
}

func printAggregate(all []runStats) {
	if len(all) == 0 {
		return
	}
	settleFrames := make([]int, 0, len(all))
	var unsettled []string
	for _, rs := range all {
		if rs.settleFrame >= 0 {
			settleFrames = append(settleFrames, rs.settleFrame)
		} else {
			unsettled = append(unsettled, rs.kind.String())
		}
	}

	ranked := append([]runStats(nil), all...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return settleRank(ranked[i]) < settleRank(ranked[j])
	})

	fmt.Println("=== Aggregate ===")
	fmt.Printf("formations=%d settled=%d avg_settle_frame=%s\n",
		len(all), len(settleFrames), avgFrameString(settleFrames))
	fmt.Printf("fastest=%s (%s) slowest=%s (%s)\n",
		ranked[0].kind, frameString(ranked[0].settleFrame),
		ranked[len(ranked)-1].kind, frameString(ranked[len(ranked)-1].settleFrame))
	if len(unsettled) > 0 {
		fmt.Printf("never_settled: %s\n", strings.Join(unsettled, ","))
	}
}

// settleRank orders settled runs by frame and puts unsettled runs last.
func settleRank(rs runStats) int {
	if rs.settleFrame < 0 {
		return math.MaxInt
	}
	return rs.settleFrame
}

func frameString(f int) string {
	if f < 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d", f)
}

func avgFrameString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
