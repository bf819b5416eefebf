package scenario

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridframe/internal/ctxlog"
	"github.com/vk/gridframe/internal/fsutil"
)

// scenarioBlock is the required `scenario` block naming the build key.
type scenarioBlock struct {
	Name       string `hcl:"name"`
	Subproblem int    `hcl:"subproblem,optional"`
	Stage      int    `hcl:"stage,optional"`
}

// projectBlock is the HCL shape of a `project` block. Everything the core
// schema does not claim stays in Remain for type modules to decode.
type projectBlock struct {
	Name            string   `hcl:"name,label"`
	CapacityType    string   `hcl:"capacity_type,optional"`
	OperationalType string   `hcl:"operational_type,optional"`
	ReliabilityType string   `hcl:"reliability_type,optional"`
	ReserveType     string   `hcl:"reserve_type,optional"`
	CostGroup       string   `hcl:"cost_group,optional"`
	LoadZone        string   `hcl:"load_zone,optional"`
	Remain          hcl.Body `hcl:",remain"`
}

// txLineBlock is the HCL shape of a `tx_line` block.
type txLineBlock struct {
	Name              string   `hcl:"name,label"`
	TxCapacityType    string   `hcl:"tx_capacity_type,optional"`
	TxOperationalType string   `hcl:"tx_operational_type,optional"`
	FromZone          string   `hcl:"from_zone,optional"`
	ToZone            string   `hcl:"to_zone,optional"`
	Remain            hcl.Body `hcl:",remain"`
}

// fileRoot decodes all top-level blocks of any scenario input file. Scenario
// data may be split across several files; blocks are merged in file order.
type fileRoot struct {
	Scenario   *scenarioBlock  `hcl:"scenario,block"`
	Periods    []int           `hcl:"periods,optional"`
	Timepoints []int           `hcl:"timepoints,optional"`
	Projects   []*projectBlock `hcl:"project,block"`
	TxLines    []*txLineBlock  `hcl:"tx_line,block"`
	Remain     hcl.Body        `hcl:",remain"`
}

// Load reads every .hcl file under path (a file or a directory) and merges
// the blocks into one Scenario. Exactly one `scenario` block must appear
// across all files, and entity names must be unique within their kind.
func Load(ctx context.Context, path string) (*Scenario, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("discovering scenario files under %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl scenario files found under %s", path)
	}
	logger.Debug("Discovered scenario files.", "count", len(files))

	parser := hclparse.NewParser()
	sc := &Scenario{}
	seenProjects := make(map[string]string)
	seenTxLines := make(map[string]string)
	haveScenarioBlock := false

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %s", file, diags.Error())
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %s", file, diags.Error())
		}

		if root.Scenario != nil {
			if haveScenarioBlock {
				return nil, fmt.Errorf("%s: scenario block declared more than once", file)
			}
			haveScenarioBlock = true
			sc.Name = root.Scenario.Name
			sc.Subproblem = root.Scenario.Subproblem
			sc.Stage = root.Scenario.Stage
		}
		if len(root.Periods) > 0 {
			sc.Periods = append(sc.Periods, root.Periods...)
		}
		if len(root.Timepoints) > 0 {
			sc.Timepoints = append(sc.Timepoints, root.Timepoints...)
		}

		for _, pb := range root.Projects {
			if prev, dup := seenProjects[pb.Name]; dup {
				return nil, fmt.Errorf("%s: project %q already declared in %s", file, pb.Name, prev)
			}
			seenProjects[pb.Name] = file
			attrs, err := remainAttributes(pb.Remain)
			if err != nil {
				return nil, fmt.Errorf("%s: project %q: %w", file, pb.Name, err)
			}
			sc.Projects = append(sc.Projects, &ProjectRow{
				Name:            pb.Name,
				LoadZone:        pb.LoadZone,
				CapacityType:    pb.CapacityType,
				OperationalType: pb.OperationalType,
				ReliabilityType: pb.ReliabilityType,
				ReserveType:     pb.ReserveType,
				CostGroup:       pb.CostGroup,
				Attrs:           attrs,
			})
		}
		for _, txb := range root.TxLines {
			if prev, dup := seenTxLines[txb.Name]; dup {
				return nil, fmt.Errorf("%s: tx_line %q already declared in %s", file, txb.Name, prev)
			}
			seenTxLines[txb.Name] = file
			attrs, err := remainAttributes(txb.Remain)
			if err != nil {
				return nil, fmt.Errorf("%s: tx_line %q: %w", file, txb.Name, err)
			}
			sc.TxLines = append(sc.TxLines, &TxLineRow{
				Name:              txb.Name,
				TxCapacityType:    txb.TxCapacityType,
				TxOperationalType: txb.TxOperationalType,
				FromZone:          txb.FromZone,
				ToZone:            txb.ToZone,
				Attrs:             attrs,
			})
		}
	}

	if !haveScenarioBlock {
		return nil, fmt.Errorf("no scenario block found in any file under %s", path)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario block must set a non-empty name")
	}

	logger.Info("Scenario loaded.",
		"scenario", sc.Name,
		"projects", len(sc.Projects),
		"tx_lines", len(sc.TxLines),
		"periods", len(sc.Periods),
		"timepoints", len(sc.Timepoints),
	)
	return sc, nil
}

// remainAttributes evaluates every attribute left over after the core schema
// was decoded. Module data is constant-valued, so evaluation needs no
// variables or functions.
func remainAttributes(body hcl.Body) (map[string]cty.Value, error) {
	if body == nil {
		return map[string]cty.Value{}, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("reading module attributes: %s", diags.Error())
	}
	out := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating attribute %q: %s", name, diags.Error())
		}
		out[name] = v
	}
	return out, nil
}
