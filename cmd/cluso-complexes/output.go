package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-complexes/pkg/clusterone"
	"github.com/dd0wney/cluso-complexes/pkg/config"
)

// writeComplexes writes one complex per line (plain) or a CSV table with
// per-complex statistics.
func writeComplexes(w io.Writer, format string, complexes []*clusterone.Complex) error {
	switch format {
	case config.FormatCSV:
		return writeCSV(w, complexes)
	case config.FormatPlain, "":
		return writePlain(w, complexes)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writePlain(w io.Writer, complexes []*clusterone.Complex) error {
	for _, c := range complexes {
		if _, err := fmt.Fprintln(w, strings.Join(c.Names(), "\t")); err != nil {
			return err
		}
	}
	return nil
}

var csvHeader = []string{"Cluster", "Size", "Density", "Internal weight", "External weight", "Quality", "P-value", "Members"}

func writeCSV(w io.Writer, complexes []*clusterone.Complex) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, c := range complexes {
		record := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(c.Size()),
			formatFloat(c.Density()),
			formatFloat(c.TotalInternalWeight()),
			formatFloat(c.TotalBoundaryWeight()),
			formatFloat(c.Quality),
			formatFloat(c.PValue),
			strings.Join(c.Names(), " "),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}
