// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fold

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"text/template"

	"github.com/biogo/external"

	grnaedit "github.com/schnauferlab/grnaedit"
)

// RNAcofold defines the parameters for invoking ViennaRNA's RNAcofold
// as the production folding oracle, following the same buildarg-tag
// command-templating idiom as the teacher's blasr.BLASR struct.
type RNAcofold struct {
	// Cmd is the path to the RNAcofold binary, defaulting to
	// "RNAcofold" found on $PATH.
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}RNAcofold{{end}}"`

	// Dangles sets the -d dangling-end model (0-3); -1 leaves it unset.
	Dangles int `buildarg:"{{if ge . 0}}-d{{split}}{{.}}{{end}}"`

	// NoPS disables postscript structure plots, which this adapter
	// never needs.
	NoPS bool `buildarg:"{{if .}}--noPS{{end}}"`

	// Temperature sets folding temperature in Celsius; zero means use
	// RNAcofold's own default.
	Temperature float64 `buildarg:"{{if .}}-T{{split}}{{.}}{{end}}"`
}

// buildCommand returns an exec.Cmd that runs RNAcofold, reading the
// cofold string on stdin in the same invocation style RNAcofold
// expects (one sequence pair per line, terminated by @ or EOF).
func (r RNAcofold) buildCommand() (*exec.Cmd, error) {
	args := external.Must(external.Build(r, template.FuncMap{}))
	if len(args) == 0 {
		return nil, fmt.Errorf("fold: RNAcofold command builder returned no arguments")
	}
	return exec.Command(args[0], args[1:]...), nil
}

// ProcessOracle is the production Oracle implementation: it shells out
// to RNAcofold for each cofold string (or batch of cofold strings),
// parsing MFE values from RNAcofold's textual output.
type ProcessOracle struct {
	Params RNAcofold
}

// NewProcessOracle returns a ProcessOracle using sensible RNAcofold
// defaults (dangles model 2, no postscript output).
func NewProcessOracle(binPath string) *ProcessOracle {
	return &ProcessOracle{Params: RNAcofold{Cmd: binPath, Dangles: 2, NoPS: true}}
}

// Cofold implements Oracle.
func (p *ProcessOracle) Cofold(cofoldString string) (Result, error) {
	if err := checkDegenerate(cofoldString); err != nil {
		return Result{}, err
	}

	cmd, err := p.Params.buildCommand()
	if err != nil {
		return Result{}, err
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(cofoldString + "\n@\n")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Result{}, fmt.Errorf("%w: %v: %s", grnaedit.ErrFoldOracle, err, stderr.String())
	}

	return parseRNAcofoldOutput(stdout.String())
}

// CofoldBatch implements Oracle, folding up the batch through the
// shared bounded worker pool helper.
func (p *ProcessOracle) CofoldBatch(cofoldStrings []string) ([]Result, error) {
	return runBatch(cofoldStrings, p.Cofold)
}

// parseRNAcofoldOutput parses a single-record RNAcofold stdout block:
//
//	auugc&cgguu
//	.((...)).. (-3.40)
//
// returning the dot-bracket alignment and the MFE in kcal/mol.
func parseRNAcofoldOutput(out string) (Result, error) {
	sc := bufio.NewScanner(strings.NewReader(out))
	var lines []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) < 2 {
		return Result{}, fmt.Errorf("%w: unexpected RNAcofold output %q", grnaedit.ErrFoldOracle, out)
	}

	structLine := lines[1]
	open := strings.LastIndexByte(structLine, '(')
	closeParen := strings.LastIndexByte(structLine, ')')
	if open < 0 || closeParen <= open {
		return Result{}, fmt.Errorf("%w: no MFE parenthetical in %q", grnaedit.ErrFoldOracle, structLine)
	}
	mfeStr := strings.TrimSpace(structLine[open+1 : closeParen])
	mfe, err := strconv.ParseFloat(mfeStr, 64)
	if err != nil {
		return Result{}, fmt.Errorf("%w: parsing MFE %q: %v", grnaedit.ErrFoldOracle, mfeStr, err)
	}

	alignment := strings.TrimSpace(structLine[:open])
	return Result{Alignment: alignment, MFE: mfe}, nil
}
