package game

import (
	"encoding/json"
	"testing"
)

func TestPlinkoTablesShape(t *testing.T) {
	for risk, byRows := range plinkoTables {
		for rows, table := range byRows {
			if len(table) != rows+1 {
				t.Errorf("%s/%d: table has %d buckets, want %d", risk, rows, len(table), rows+1)
			}
			// Curves are symmetric around the centre.
			for i := 0; i < len(table)/2; i++ {
				if table[i] != table[len(table)-1-i] {
					t.Errorf("%s/%d: asymmetric at bucket %d", risk, rows, i)
				}
			}
		}
	}
}

func TestPlinkoResolve(t *testing.T) {
	g := Plinko{}
	for _, rows := range []int{8, 12, 16} {
		raw, _ := json.Marshal(PlinkoParams{Rows: rows, Risk: "medium"})
		res, err := g.Resolve(testSeed(11), raw)
		if err != nil {
			t.Fatal(err)
		}
		out := res.Outcome.Plinko
		if len(out.Path) != rows {
			t.Fatalf("rows=%d path length %d", rows, len(out.Path))
		}
		sum := 0
		for _, step := range out.Path {
			if step != 0 && step != 1 {
				t.Fatalf("path step %d", step)
			}
			sum += step
		}
		if out.Bucket != sum || out.Bucket < 0 || out.Bucket > rows {
			t.Fatalf("bucket %d, path sum %d, rows %d", out.Bucket, sum, rows)
		}
		if res.Multiplier != plinkoTables["medium"][rows][out.Bucket] {
			t.Fatalf("multiplier %v not from table", res.Multiplier)
		}
	}
}

func TestPlinkoValidateParams(t *testing.T) {
	g := Plinko{}
	bad := []PlinkoParams{
		{Rows: 9, Risk: "low"},
		{Rows: 8, Risk: "extreme"},
		{Rows: 0, Risk: "low"},
	}
	for _, p := range bad {
		raw, _ := json.Marshal(p)
		if err := g.ValidateParams(raw); err == nil {
			t.Errorf("params %+v accepted", p)
		}
	}
	raw, _ := json.Marshal(PlinkoParams{Rows: 16, Risk: "high"})
	if err := g.ValidateParams(raw); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}
}
