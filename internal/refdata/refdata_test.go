package refdata

import "testing"

func TestEmbeddedTablesLoad(t *testing.T) {
	provinces, err := Provinces()
	if err != nil {
		t.Fatalf("Provinces: %v", err)
	}
	if len(provinces) != 77 {
		t.Fatalf("province table has %d rows, want 77", len(provinces))
	}
	amphurs, err := Amphurs()
	if err != nil {
		t.Fatalf("Amphurs: %v", err)
	}
	if len(amphurs) == 0 {
		t.Fatal("amphur table is empty")
	}
	for _, p := range provinces {
		if p.Code == "" || p.NameTH == "" {
			t.Fatalf("incomplete province row: %+v", p)
		}
	}
	for _, a := range amphurs {
		if a.ProvinceCode == "" || a.Code == "" {
			t.Fatalf("incomplete amphur row: %+v", a)
		}
	}
}

func TestFindProvinceCodeManual(t *testing.T) {
	provinces, err := Provinces()
	if err != nil {
		t.Fatalf("Provinces: %v", err)
	}

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"thai exact", "ชลบุรี", "20"},
		{"english exact", "Chonburi", "20"},
		{"english case insensitive", "cHoNbUrI", "20"},
		{"whitespace trimmed", "  ชลบุรี  ", "20"},
		{"english trimmed and lowered", "  CHONBURI  ", "20"},
		{"partial thai", "จังหวัดชลบุรี", "20"},
		{"bangkok", "กรุงเทพมหานคร", "10"},
		{"empty input", "", ""},
		{"no match", "ไม่มีจังหวัดนี้", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FindProvinceCodeManual(tc.in, provinces); got != tc.want {
				t.Fatalf("FindProvinceCodeManual(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}

	// Same inputs, same table, same answer.
	for i := 0; i < 3; i++ {
		if got := FindProvinceCodeManual("ชลบุรี", provinces); got != "20" {
			t.Fatalf("run %d: FindProvinceCodeManual drifted to %q", i, got)
		}
	}
}

func TestFindAmphurCodeManual(t *testing.T) {
	amphurs, err := Amphurs()
	if err != nil {
		t.Fatalf("Amphurs: %v", err)
	}

	cases := []struct {
		name     string
		in       string
		province string
		want     string
	}{
		{"thai exact", "ศรีราชา", "20", "07"},
		{"english exact", "Si Racha", "20", "07"},
		{"partial thai", "อำเภอศรีราชา", "20", "07"},
		{"wrong province", "ศรีราชา", "10", ""},
		{"empty province short circuits", "ศรีราชา", "", ""},
		{"empty name", "", "20", ""},
		{"sentinel row never matches", "ไม่ระบุ", "20", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FindAmphurCodeManual(tc.in, tc.province, amphurs); got != tc.want {
				t.Fatalf("FindAmphurCodeManual(%q, %q) = %q, want %q", tc.in, tc.province, got, tc.want)
			}
		})
	}
}

func TestAmphursForProvinceExcludesSentinel(t *testing.T) {
	amphurs, err := Amphurs()
	if err != nil {
		t.Fatalf("Amphurs: %v", err)
	}
	rows := AmphursForProvince("20", amphurs)
	if len(rows) == 0 {
		t.Fatal("no amphur rows for province 20")
	}
	for _, a := range rows {
		if a.Code == "00" {
			t.Fatalf("sentinel row leaked into results: %+v", a)
		}
		if a.ProvinceCode != "20" {
			t.Fatalf("foreign province row leaked: %+v", a)
		}
	}
}
