// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/alvinbaena/crack-time/pkg/estimate"
	"github.com/alvinbaena/crack-time/pkg/format"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ratingColors approximate the display palette on an ANSI terminal.
var ratingColors = [...]text.Colors{
	{text.FgRed, text.Bold},
	{text.FgHiRed},
	{text.FgYellow},
	{text.FgGreen},
	{text.FgHiGreen, text.Bold},
}

func ratingCell(r estimate.Rating, label string) string {
	if _, err := format.RatingColor(r); err != nil {
		return label
	}
	return ratingColors[r].Sprint(label)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderEstimate(w io.Writer, r estimate.EstimateResponse) {
	t := newTable(w)
	t.SetTitle("Crack time estimate")
	t.AppendRows([]table.Row{
		{"Algorithm", format.AlgorithmLabel(r.HashAlgorithm)},
		{"Hardware", format.TierLabel(r.HardwareTier)},
		{"Hash rate", format.FormatRate(r.EffectiveHashRate)},
		{"Guesses", format.FormatNumber(r.GuessNumber)},
		{"Crack time", r.CrackTimeDisplay},
		{"Rating", ratingCell(r.Rating, r.RatingLabel)},
		{"Winning attack", attackName(r)},
	})
	t.Render()

	if len(r.Strategies) > 0 {
		names := make([]string, 0, len(r.Strategies))
		for name := range r.Strategies {
			names = append(names, name)
		}
		sort.Strings(names)

		s := newTable(w)
		s.SetTitle("Strategies")
		s.AppendHeader(table.Row{"Strategy", "Attack", "Guesses"})
		for _, name := range names {
			info := r.Strategies[name]
			s.AppendRow(table.Row{name, info.AttackName, format.FormatNumber(info.GuessNumber)})
		}
		s.Render()
	}

	if len(r.Decomposition) > 0 {
		d := newTable(w)
		d.SetTitle("Decomposition")
		d.AppendHeader(table.Row{"Segment", "Type", "Runes", "Guesses"})
		for _, seg := range r.Decomposition {
			guesses := seg.Guesses
			d.AppendRow(table.Row{seg.Segment, seg.Type, fmt.Sprintf("%d-%d", seg.I, seg.J), format.FormatNumber(&guesses)})
		}
		d.Render()
	}
}

func attackName(r estimate.EstimateResponse) string {
	if r.WinningAttack == "" {
		return format.NotAvailable
	}
	if s, ok := r.Strategies[r.WinningAttack]; ok && s.AttackName != "" {
		return s.AttackName
	}
	return r.WinningAttack
}

// renderComparison prints one row per result, labelled by the value being compared.
func renderComparison(w io.Writer, title string, results []estimate.EstimateResponse, label func(estimate.EstimateResponse) string) {
	t := newTable(w)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"", "Guesses", "Crack time", "Rating", "Winning attack"})
	for _, r := range results {
		t.AppendRow(table.Row{label(r), format.FormatNumber(r.GuessNumber), r.CrackTimeDisplay,
			ratingCell(r.Rating, r.RatingLabel), attackName(r)})
	}
	t.Render()
}

func renderBatch(w io.Writer, b estimate.BatchResponse) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Password", "Guesses", "Crack time", "Rating", "Winning attack"})
	for i, p := range b.Passwords {
		attack := p.WinningAttack
		if attack == "" {
			attack = format.NotAvailable
		}
		t.AppendRow(table.Row{i + 1, p.Password, format.FormatNumber(p.GuessNumber), p.CrackTimeDisplay,
			ratingCell(p.Rating, p.RatingLabel), attack})
	}
	median := b.Summary.MedianCrackTimeSeconds
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d passwords", b.TotalPasswords), "median",
		format.FormatNumber(&median) + " s", "", ""})
	t.Render()

	if len(b.Summary.RatingDistribution) > 0 {
		d := newTable(w)
		d.SetTitle("Ratings")
		d.AppendHeader(table.Row{"Rating", "Passwords"})
		for r := estimate.MinRating; r <= estimate.MaxRating; r++ {
			if n := b.Summary.RatingDistribution[r]; n > 0 {
				d.AppendRow(table.Row{ratingCell(r, ratingName(b, r)), n})
			}
		}
		d.Render()
	}
}

// ratingName finds the label the service used for a rating in the batch.
func ratingName(b estimate.BatchResponse, r estimate.Rating) string {
	for _, p := range b.Passwords {
		if p.Rating == r {
			return p.RatingLabel
		}
	}
	return fmt.Sprintf("%d", r)
}

func renderMetadata(w io.Writer, m estimate.MetadataResponse) {
	a := newTable(w)
	a.SetTitle("Hash algorithms")
	a.AppendHeader(table.Row{"Name", "Algorithm", "Rate (1 GPU)"})
	for _, alg := range m.Algorithms {
		a.AppendRow(table.Row{alg.Name, format.AlgorithmLabel(alg.Name), format.FormatRate(alg.Rate)})
	}
	a.Render()

	h := newTable(w)
	h.SetTitle("Hardware tiers")
	h.AppendHeader(table.Row{"Name", "Tier", "Hardware", "Multiplier"})
	for _, t := range m.HardwareTiers {
		h.AppendRow(table.Row{t.Name, format.TierLabel(t.Name), t.Description, fmt.Sprintf("x%g", t.Multiplier)})
	}
	h.Render()
}
