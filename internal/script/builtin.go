package script

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Builtins returns the built-in demo catalogue. Sample values are drawn
// from rng once, here, and frozen into the lines; replaying a script never
// changes its content.
func Builtins(rng *rand.Rand) []Script {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return []Script{
		reconDemo(rng),
		assistantDemo(rng),
		metricsDemo(rng),
	}
}

func reconDemo(rng *rand.Rand) Script {
	host := fmt.Sprintf("10.%d.%d.%d", rng.IntN(255), rng.IntN(255), 1+rng.IntN(253))
	ports := []int{22, 80, 443, 3306, 5432, 6379, 8080, 9200}
	open := 2 + rng.IntN(4)
	hosts := 12 + rng.IntN(40)
	paths := 3 + rng.IntN(9)
	score := 6.0 + rng.Float64()*3.5

	lines := []Line{
		Instant("sentinel v2.4.1 — attack surface mapper"),
		Instant("target scope: " + host + "/24"),
		Instant(""),
		P("sentinel scan --scope " + host + "/24 --depth 3"),
		S("Scanning subnet for live hosts..."),
		OK(fmt.Sprintf("%d live hosts discovered", hosts)),
		S("Enumerating services"),
	}
	for i := 0; i < open; i++ {
		lines = append(lines, T(fmt.Sprintf("  %s:%d  open", host, ports[rng.IntN(len(ports))])))
	}
	lines = append(lines,
		S("Correlating findings with exposure graph..."),
		W(fmt.Sprintf("%d lateral movement paths reach a crown-jewel asset", paths)),
		P("sentinel graph --critical-only"),
		S("Building attack graph..."),
		T(fmt.Sprintf("  shortest path: %d hops, risk score %.1f", 2+rng.IntN(3), score)),
		OK("Report written to ./reports/attack-surface.html"),
	)
	return Script{
		Name:   "recon",
		Title:  "Attack surface scan",
		Kind:   KindTerminal,
		Lines:  lines,
		Source: "builtin",
	}
}

func assistantDemo(rng *rand.Rand) Script {
	tickets := 40 + rng.IntN(160)
	saved := 2 + rng.IntN(10)
	csat := 88 + rng.IntN(11)

	user := func(text string) Line { return Line{Category: Prompt, Text: text, Speaker: "you"} }
	bot := func(c Category, text string) Line { return Line{Category: c, Text: text, Speaker: "assistant"} }

	return Script{
		Name:  "assistant",
		Title: "Support copilot",
		Kind:  KindChat,
		Lines: []Line{
			{Text: "conversation started", Instant: true, Speaker: "system"},
			user("Summarise this week's escalations"),
			bot(Status, "Analyzing ticket history..."),
			bot(Plain, fmt.Sprintf("%d tickets were escalated, most about billing sync.", tickets)),
			bot(Warning, "Three accounts hit the same webhook timeout."),
			user("Draft a reply for those accounts"),
			bot(Status, "Generating draft..."),
			bot(Plain, "Hi there, we traced the delay to a webhook retry limit and raised it."),
			bot(Success, fmt.Sprintf("Draft ready. Estimated %d agent hours saved, CSAT %d%%.", saved, csat)),
		},
		Source: "builtin",
	}
}

func metricsDemo(rng *rand.Rand) Script {
	lines := []Line{
		Instant("quarterly pipeline, in $k"),
		S("Loading warehouse snapshot..."),
	}
	base := 120 + rng.Float64()*60
	for q := 1; q <= 6; q++ {
		v := math.Round(base*(1+0.18*float64(q-1)+rng.Float64()*0.1)*10) / 10
		lines = append(lines, T(fmt.Sprintf("Q%d  %.1f", q, v)).WithValue(v))
	}
	lines = append(lines,
		S("Calculating growth rate..."),
		OK(fmt.Sprintf("Pipeline up %d%% year over year", 60+rng.IntN(50))),
	)
	return Script{
		Name:   "metrics",
		Title:  "Revenue pipeline",
		Kind:   KindChart,
		Lines:  lines,
		Source: "builtin",
	}
}
