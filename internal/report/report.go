// Package report formats a day's Stats snapshot as human-readable text
// for cmd/citysim, using go-humanize for the same comma-grouped,
// percentage, and rounded-float formatting the corpus favors over
// hand-rolled fmt.Sprintf number formatting.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/talgya/citysim/internal/worldmodel"
)

// DailySummary renders a single-line summary of a day's Stats, suitable
// for a log line or console readout.
func DailySummary(s worldmodel.Stats) string {
	return fmt.Sprintf(
		"day %s  pop %s  jobs %s/%s  happiness %s  money %s  commute %s",
		humanize.Comma(int64(s.Day)),
		humanize.Comma(int64(s.Population)),
		humanize.Comma(int64(s.Employed)),
		humanize.Comma(int64(s.JobsCapacity)),
		humanize.FtoaWithDigits(float64(s.Happiness)*100, 1)+"%",
		humanize.Comma(int64(s.Money)),
		humanize.FtoaWithDigits(float64(s.AvgCommuteTime), 0)+"ms",
	)
}

// Detail renders a multi-line breakdown of every Stats group, used for a
// verbose or --detail style report.
func Detail(s worldmodel.Stats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Day %s\n", humanize.Comma(int64(s.Day)))
	fmt.Fprintf(&b, "  Population       %s (housing cap %s)\n",
		humanize.Comma(int64(s.Population)), humanize.Comma(int64(s.HousingCapacity)))
	fmt.Fprintf(&b, "  Jobs             %s employed / %s capacity (%s accessible)\n",
		humanize.Comma(int64(s.Employed)), humanize.Comma(int64(s.JobsCapacity)), humanize.Comma(int64(s.JobsCapacityAccessible)))
	fmt.Fprintf(&b, "  Happiness        %s%%\n", humanize.FtoaWithDigits(float64(s.Happiness)*100, 1))
	fmt.Fprintf(&b, "  Money            %s (income-expenses %s/%s)\n",
		humanize.Comma(int64(s.Money)), humanize.Comma(int64(s.Income)), humanize.Comma(int64(s.Expenses)))

	fmt.Fprintf(&b, "  Commute          avg %s ms, p95 %s ms, congestion %s%%\n",
		humanize.FtoaWithDigits(float64(s.AvgCommuteTime), 0),
		humanize.FtoaWithDigits(float64(s.P95CommuteTime), 0),
		humanize.FtoaWithDigits(float64(s.TrafficCongestion)*100, 1))

	fmt.Fprintf(&b, "  Goods            produced %s, delivered %s, satisfaction %s%%\n",
		humanize.Comma(int64(s.GoodsProduced)), humanize.Comma(int64(s.GoodsDelivered)),
		humanize.FtoaWithDigits(float64(s.GoodsSatisfaction)*100, 1))
	if s.GoodsUnusedSupply > 0 {
		fmt.Fprintf(&b, "  Goods surplus    %s unused (neither delivered nor exported)\n",
			humanize.Comma(int64(s.GoodsUnusedSupply)))
	}

	fmt.Fprintf(&b, "  Services         edu %s%%, health %s%%, safety %s%% (overall %s%%, upkeep %s/day)\n",
		humanize.FtoaWithDigits(float64(s.ServicesEducationSatisfaction)*100, 1),
		humanize.FtoaWithDigits(float64(s.ServicesHealthSatisfaction)*100, 1),
		humanize.FtoaWithDigits(float64(s.ServicesSafetySatisfaction)*100, 1),
		humanize.FtoaWithDigits(float64(s.ServicesOverallSatisfaction)*100, 1),
		humanize.Comma(int64(s.ServicesMaintenanceCost)))

	fmt.Fprintf(&b, "  Demand           res %s%%, com %s%%, ind %s%%\n",
		humanize.FtoaWithDigits(float64(s.DemandResidential)*100, 1),
		humanize.FtoaWithDigits(float64(s.DemandCommercial)*100, 1),
		humanize.FtoaWithDigits(float64(s.DemandIndustrial)*100, 1))

	if s.FireIncidentCost > 0 || s.FireIncidentDamaged > 0 || s.FireIncidentDestroyed > 0 {
		fmt.Fprintf(&b, "  Fire incident    damaged %s, destroyed %s, cost %s\n",
			humanize.Comma(int64(s.FireIncidentDamaged)), humanize.Comma(int64(s.FireIncidentDestroyed)),
			humanize.Comma(int64(s.FireIncidentCost)))
	}
	if s.TrafficIncidentInjuries > 0 {
		fmt.Fprintf(&b, "  Traffic incident injuries %s, cost %s\n",
			humanize.Comma(int64(s.TrafficIncidentInjuries)), humanize.Comma(int64(s.TrafficIncidentCost)))
	}

	return b.String()
}
