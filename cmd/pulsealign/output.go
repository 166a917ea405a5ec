package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-pulse/pulse"
)

// outputStems names the output files of each shot after its source file.
// Shots whose base names collide are prefixed with their index in shots so
// that no shot overwrites another.
func outputStems(shots []*pulse.Shot) []string {
	stems := make([]string, len(shots))
	seen := make(map[string]int, len(shots))
	for i, shot := range shots {
		stems[i] = strings.TrimSuffix(filepath.Base(shot.Source), filepath.Ext(shot.Source))
		seen[stems[i]]++
	}
	for i, stem := range stems {
		if seen[stem] > 1 {
			stems[i] = fmt.Sprintf("%02d_%s", i, stem)
		}
	}
	return stems
}

// writeShot writes the rising and falling branches of shot to dir as
// <stem>_rising.tsv and <stem>_falling.tsv, one column per channel plus
// the resistances, and returns the paths written.
func writeShot(dir, stem string, shot *pulse.Shot, names []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	header, rising, falling := columns(shot, names)

	var paths []string
	for _, b := range []struct {
		suffix string
		cols   [][]float64
	}{
		{"rising", rising},
		{"falling", falling},
	} {
		path := filepath.Join(dir, stem+"_"+b.suffix+".tsv")
		if err := writeTSV(path, header, b.cols); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func columns(shot *pulse.Shot, names []string) (header []string, rising, falling [][]float64) {
	add := func(name string, seg *pulse.Branch) {
		if seg == nil {
			return
		}
		header = append(header, name)
		rising = append(rising, seg.Rising)
		falling = append(falling, seg.Falling)
	}

	add(pulse.Field, shot.Segments[pulse.Field])
	for _, name := range names {
		if name != pulse.Field {
			add(name, shot.Segments[name])
		}
	}
	add("Rxx", shot.Rxx)
	add("Rxy", shot.Rxy)
	return header, rising, falling
}

// writeTSV writes cols side by side; shorter columns leave empty cells.
func writeTSV(path string, header []string, cols [][]float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return err
	}

	rows := 0
	for _, c := range cols {
		rows = max(rows, len(c))
	}
	cells := make([]string, len(cols))
	for r := range rows {
		for i, c := range cols {
			cells[i] = ""
			if r < len(c) {
				cells[i] = strconv.FormatFloat(c[r], 'g', -1, 64)
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return w.Flush()
}
