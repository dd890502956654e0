// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// grnaedit reconstructs the U-insertion/U-deletion RNA editing pathway
// between an unedited kinetoplastid mitochondrial transcript and a
// pool of candidate guide RNAs, persisting the resulting guide tree
// and its constituent edit trees.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/schnauferlab/grnaedit/config"
	"github.com/schnauferlab/grnaedit/edittree"
	"github.com/schnauferlab/grnaedit/fold"
	"github.com/schnauferlab/grnaedit/guidetree"
	"github.com/schnauferlab/grnaedit/ioseq"
	"github.com/schnauferlab/grnaedit/report"
)

func main() {
	var (
		mrnaPath    string
		guidesPath  string
		outDir      string
		rnacofold   string
		useStub     bool
		stubMFE     float64
	)
	flag.StringVar(&mrnaPath, "mrna", "", "path to the two-line unedited mRNA file")
	flag.StringVar(&guidesPath, "guides", "", "path to the guide RNA pool file")
	flag.StringVar(&outDir, "out", ".", "directory to write the guide tree and edit tree reports into")
	flag.StringVar(&rnacofold, "rnacofold", "RNAcofold", "path to the RNAcofold binary")
	flag.BoolVar(&useStub, "stub-fold", false, "use a deterministic stand-in fold oracle instead of invoking RNAcofold")
	flag.Float64Var(&stubMFE, "stub-mfe", -5, "default MFE returned by the stand-in fold oracle")
	flag.Parse()

	if mrnaPath == "" || guidesPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("grnaedit: invalid configuration: %v", err)
	}

	messenger, err := ioseq.ReadMessenger(mrnaPath)
	if err != nil {
		log.Fatalf("grnaedit: reading mRNA: %v", err)
	}
	pool, err := ioseq.ReadGuides(guidesPath)
	if err != nil {
		log.Fatalf("grnaedit: reading guides: %v", err)
	}

	order := make([]string, 0, len(pool))
	for name := range pool {
		order = append(order, name)
	}

	var oracle fold.Oracle
	if useStub {
		oracle = fold.NewStub(stubMFE)
	} else {
		oracle = fold.NewProcessOracle(rnacofold)
	}

	log.Printf("grnaedit: growing guide tree for %q against %d candidate guides", messenger.Name, len(pool))

	editTreeDir := filepath.Join(outDir, "edit_trees")
	if err := os.MkdirAll(editTreeDir, 0o755); err != nil {
		log.Fatalf("grnaedit: creating output directory: %v", err)
	}

	gt := guidetree.New(messenger, pool, order, cfg, oracle)
	gt.OnEditTree = func(t *edittree.Tree) {
		base := fmt.Sprintf("%s_%d", t.GuideName, t.DockIndex)
		if err := report.WriteEditTreeCSV(filepath.Join(editTreeDir, base+".csv"), t); err != nil {
			log.Printf("grnaedit: writing edit tree csv for %s: %v", base, err)
		}
		if err := report.WriteEditTreeSVG(filepath.Join(editTreeDir, base+".svg"), t); err != nil {
			log.Printf("grnaedit: writing edit tree svg for %s: %v", base, err)
		}
	}
	if err := gt.Grow(); err != nil {
		log.Fatalf("grnaedit: guide tree growth failed: %v", err)
	}

	log.Printf("grnaedit: guide tree has %d nodes (%d edit-tree cache hits), %d leaves",
		len(gt.Nodes), gt.CacheHits, len(gt.Leaves()))

	csvPath := filepath.Join(outDir, "guide_tree.csv")
	if err := report.WriteGuideTreeCSV(csvPath, gt); err != nil {
		log.Fatalf("grnaedit: writing %s: %v", csvPath, err)
	}
	svgPath := filepath.Join(outDir, "guide_tree.svg")
	if err := report.WriteGuideTreeSVG(svgPath, gt); err != nil {
		log.Fatalf("grnaedit: writing %s: %v", svgPath, err)
	}

	fmt.Printf("wrote %s and %s\n", csvPath, svgPath)
}
