package extractor

import (
	"testing"

	"intentcheck/internal/analyzer"
	"intentcheck/internal/types"
)

func TestAssembleMethodChange(t *testing.T) {
	analysis := analyzeFixture(t)
	blocks := Assemble(Localize(analysis, types.LineSet{16: true}), analysis)

	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	block := blocks[0]
	if got := block.Definition.DisplayName(); got != "Beta.run" {
		t.Fatalf("Expected block for Beta.run, got %s", got)
	}

	// other.run() matched by its last segment against the first run in
	// emission order, which is Alpha's.
	if len(block.Signatures) != 1 {
		t.Fatalf("Expected 1 resolved signature, got %d", len(block.Signatures))
	}
	sig := block.Signatures[0]
	if sig.Call != "other.run" {
		t.Errorf("Expected call other.run, got %s", sig.Call)
	}
	if got := sig.Definition.DisplayName(); got != "Alpha.run" {
		t.Errorf("Expected resolution to Alpha.run, got %s", got)
	}

	if len(block.Imports) != 1 || block.Imports[0] != "import helpers" {
		t.Errorf("Expected imports [import helpers], got %v", block.Imports)
	}
}

func TestAssembleSkipsClassWhenMethodsAreRelevant(t *testing.T) {
	analysis := analyzeFixture(t)
	blocks := Assemble(Localize(analysis, types.LineSet{9: true}), analysis)

	if len(blocks) != 1 {
		t.Fatalf("Expected only the method block, got %d blocks", len(blocks))
	}
	if got := blocks[0].Definition.DisplayName(); got != "Alpha.run" {
		t.Fatalf("Expected Alpha.run block, got %s", got)
	}
}

func TestAssembleClassAttributeChange(t *testing.T) {
	analysis := analyzeFixture(t)
	blocks := Assemble(Localize(analysis, types.LineSet{13: true}), analysis)

	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	block := blocks[0]
	if got := block.Definition.DisplayName(); got != "Beta" {
		t.Fatalf("Expected class block for Beta, got %s", got)
	}

	// Calls inside the class body resolve for the class section too.
	if len(block.Signatures) != 1 || block.Signatures[0].Call != "other.run" {
		t.Fatalf("Expected other.run resolved for the class block, got %+v", block.Signatures)
	}
	if len(block.Imports) != 1 || block.Imports[0] != "import helpers" {
		t.Errorf("Expected imports [import helpers], got %v", block.Imports)
	}
}

func TestAssembleDedupesAcrossBlocks(t *testing.T) {
	analysis := analyzeFixture(t)
	blocks := Assemble(Localize(analysis, types.LineSet{5: true, 9: true}), analysis)

	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}

	helperBlock := blocks[0]
	if got := helperBlock.Definition.Name; got != "helper" {
		t.Fatalf("Expected helper block first, got %s", got)
	}
	if len(helperBlock.Imports) != 1 || helperBlock.Imports[0] != "import os" {
		t.Errorf("Expected helper block to carry import os, got %v", helperBlock.Imports)
	}

	// os.getcwd resolves to import os again, but the first block already
	// emitted it, so the second block must not.
	runBlock := blocks[1]
	if len(runBlock.Imports) != 0 {
		t.Errorf("Expected import os emitted only once per file, got %v", runBlock.Imports)
	}
	if len(runBlock.Signatures) != 1 || runBlock.Signatures[0].Definition.Name != "helper" {
		t.Errorf("Expected helper signature in second block, got %+v", runBlock.Signatures)
	}
}

func TestAssembleEmitsDefinitionOnceAcrossCallNames(t *testing.T) {
	pa, err := analyzer.NewPythonAnalyzer()
	if err != nil {
		t.Fatalf("Failed to create Python analyzer: %v", err)
	}

	// helper is reached under two different call names: a bare call and a
	// self-attribute call. Its signature must still appear only once.
	source := `def helper(x):
    return x + 1

def caller_a(y):
    return helper(y)

class Box:
    def caller_c(self):
        return self.helper(2)
`
	analysis, err := pa.Analyze(source)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	blocks := Assemble(Localize(analysis, types.LineSet{5: true, 9: true}), analysis)
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}

	emitted := 0
	for _, block := range blocks {
		for _, sig := range block.Signatures {
			if sig.Definition.DisplayName() == "helper" {
				emitted++
			}
		}
	}
	if emitted != 1 {
		t.Errorf("Expected helper signature emitted once per file, got %d", emitted)
	}
}

func TestAssembleNeverResolvesToSelf(t *testing.T) {
	pa, err := analyzer.NewPythonAnalyzer()
	if err != nil {
		t.Fatalf("Failed to create Python analyzer: %v", err)
	}
	analysis, err := pa.Analyze("def loop(n):\n    if n:\n        return loop(n - 1)\n    return 0\n")
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	blocks := Assemble(Localize(analysis, types.LineSet{3: true}), analysis)
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	if len(blocks[0].Signatures) != 0 {
		t.Errorf("Recursive call must not emit the definition's own signature, got %+v", blocks[0].Signatures)
	}
}

func TestAssembleOmitsUnresolvableCalls(t *testing.T) {
	pa, err := analyzer.NewPythonAnalyzer()
	if err != nil {
		t.Fatalf("Failed to create Python analyzer: %v", err)
	}
	analysis, err := pa.Analyze("def fire(items):\n    items[0].go()\n    missing()\n")
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	blocks := Assemble(Localize(analysis, types.LineSet{2: true}), analysis)
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	if len(blocks[0].Signatures) != 0 || len(blocks[0].Imports) != 0 {
		t.Errorf("Unresolvable calls must be omitted, got %+v", blocks[0])
	}
}
