package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/Givikap120/danser-pp/app/beatmap/objects"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/api"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/flowsnap/skills"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetBorder(false)

	return table
}

func stars(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func pp(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func renderAttributes(w io.Writer, names []string, attrs []api.Attributes, experimental bool) {
	header := []string{"Mods", "Stars", "Aim", "Speed", "Rhythm", "Flashlight", "Low AR", "High AR", "Hidden", "Objects", "Max combo"}
	if experimental {
		header = append(header, "Snap", "Flow", "Slider factor", "Difficult sliders", "Aim strains", "Speed strains", "Speed notes")
	}

	table := newTable(w, header...)

	for i, attr := range attrs {
		row := []string{
			names[i],
			stars(attr.Total),
			stars(attr.Aim),
			stars(attr.Speed),
			stars(attr.Rhythm),
			stars(attr.Flashlight),
			stars(attr.ReadingDifficultyLowAR),
			stars(attr.ReadingDifficultyHighAR),
			stars(attr.HiddenDifficulty),
			humanize.Comma(int64(attr.ObjectCount)),
			humanize.Comma(int64(attr.MaxCombo)),
		}

		if experimental {
			row = append(row,
				stars(attr.Snap),
				stars(attr.Flow),
				fmt.Sprintf("%.3f", attr.SliderFactor),
				humanize.Ftoa(math.Round(attr.AimDifficultSliderCount*10)/10),
				humanize.Ftoa(math.Round(attr.AimDifficultStrainCount*10)/10),
				humanize.Ftoa(math.Round(attr.SpeedDifficultStrainCount*10)/10),
				humanize.Ftoa(math.Round(attr.SpeedNoteCount*10)/10),
			)
		}

		table.Append(row)
	}

	table.Render()
}

func renderPerformance(w io.Writer, attr api.Attributes, perf api.PerformanceAttributes, experimental bool) {
	table := newTable(w, "", "pp")

	table.Append([]string{"Aim", pp(perf.Aim)})
	table.Append([]string{"Speed", pp(perf.Speed)})
	table.Append([]string{"Rhythm", pp(perf.Rhythm)})
	table.Append([]string{"Accuracy", pp(perf.Acc)})
	table.Append([]string{"Flashlight", pp(perf.Flashlight)})
	table.Append([]string{"Reading", pp(perf.Reading)})

	if experimental {
		deviation := "-"
		if !math.IsInf(perf.Deviation, 0) && perf.Deviation >= 0 {
			deviation = fmt.Sprintf("%.2f ms", perf.Deviation)
		}

		table.Append([]string{"Effective misses", fmt.Sprintf("%.2f", perf.EffectiveMissCount)})
		table.Append([]string{"Deviation", deviation})
	}

	table.SetFooter([]string{fmt.Sprintf("%s*", stars(attr.Total)), pp(perf.Total)})

	table.Render()
}

// renderPeaks labels every section with its end in map time
func renderPeaks(w io.Writer, peaks api.StrainPeaks, firstObjectTime, clockRate float64) {
	table := newTable(w, "Section", "Ends at", "Aim", "Speed", "Rhythm", "Flashlight", "Low AR", "High AR", "Hidden", "Stars")

	at := func(p []float64, i int) string {
		if i < len(p) {
			return fmt.Sprintf("%.1f", p[i])
		}

		return "-"
	}

	firstSectionEnd := math.Ceil(firstObjectTime/clockRate/skills.DefaultSectionLength) * skills.DefaultSectionLength

	for i := range peaks.Total {
		sectionEnd := (firstSectionEnd + float64(i)*skills.DefaultSectionLength) * clockRate

		table.Append([]string{
			humanize.Comma(int64(i)),
			formatTime(sectionEnd),
			at(peaks.Aim, i),
			at(peaks.Speed, i),
			at(peaks.Rhythm, i),
			at(peaks.Flashlight, i),
			at(peaks.ReadingLowAR, i),
			at(peaks.ReadingHighAR, i),
			at(peaks.ReadingHidden, i),
			stars(peaks.Total[i]),
		})
	}

	table.Render()
}

func renderStep(w io.Writer, objs []objects.IHitObject, attrs []api.Attributes) {
	table := newTable(w, "Object", "Type", "Time", "Stars", "Aim", "Speed", "Combo")

	for i, attr := range attrs {
		table.Append([]string{
			humanize.Comma(int64(i)),
			objs[i].GetType().String(),
			formatTime(objs[i].GetStartTime()),
			stars(attr.Total),
			stars(attr.Aim),
			stars(attr.Speed),
			humanize.Comma(int64(attr.MaxCombo)),
		})
	}

	table.Render()
}

func formatTime(ms float64) string {
	total := int64(ms)
	return fmt.Sprintf("%02d:%02d.%03d", total/60000, total/1000%60, total%1000)
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	return nil
}
