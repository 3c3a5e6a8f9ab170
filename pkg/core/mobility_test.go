package core

import (
	"math"
	"testing"
)

func TestPeptideCharge(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		mods map[int]Modification
		want int
	}{
		{"no basic residues", "PEPTIDE", nil, 1},
		{"basic residues", "KRHAK", nil, 5},
		{
			name: "shifting modification",
			seq:  "SAMPLEK",
			mods: map[int]Modification{1: {ID: "Phosphoserine", Position: 1}},
			want: 1,
		},
		{
			name: "non shifting modification",
			seq:  "SAMPLEK",
			mods: map[int]Modification{3: {ID: "Methionine sulfoxide", Position: 3}},
			want: 2,
		},
		{
			name: "repeated identifier counts once",
			seq:  "SSK",
			mods: map[int]Modification{
				1: {ID: "Phosphoserine", Position: 1},
				2: {ID: "Phosphoserine", Position: 2},
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PeptideCharge(tt.seq, tt.mods); got != tt.want {
				t.Errorf("PeptideCharge() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestElectrophoreticMobilityFixedPoint(t *testing.T) {
	got := ElectrophoreticMobility("PEPTIDE", 1000.0, nil)
	want := math.Log(1.35) / math.Pow(1000.0, 0.411)

	if math.Abs(got-want) > 1e-15 {
		t.Errorf("ElectrophoreticMobility() = %.17g, want %.17g", got, want)
	}
	if math.Abs(got-0.01755) > 1e-5 {
		t.Errorf("ElectrophoreticMobility() = %.6f, expected about 0.01755", got)
	}
}

func TestElectrophoreticMobilityNaNGuard(t *testing.T) {
	mods := map[int]Modification{
		1: {ID: "Phosphoserine", Position: 1},
		2: {ID: "Phosphothreonine", Position: 2},
		3: {ID: "Phosphotyrosine", Position: 3},
		4: {ID: "Acetylation", Position: 4},
	}
	// charge = 1 - 4 = -3, so 1 + 0.35*charge < 0
	got := ElectrophoreticMobility("STYA", 500.0, mods)
	if got != 0.0 {
		t.Errorf("ElectrophoreticMobility() = %v, want exactly 0", got)
	}
}

func TestCifuentesMobility(t *testing.T) {
	p := &RawPeptide{
		BaseSequence:     "SAMPLER",
		MonoisotopicMass: 802.4,
		Modifications:    map[int]Modification{1: {ID: "Phosphoserine", Position: 1}},
	}
	// charge = 1 + 1 (R) - 1
	want := math.Log(1+0.35*1) / math.Pow(802.4, 0.411)
	if got := CifuentesMobility(p); math.Abs(got-want) > 1e-15 {
		t.Errorf("CifuentesMobility() = %v, want %v", got, want)
	}
}
