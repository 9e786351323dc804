package datatable

import "fmt"

type role struct {
	ID   string
	Name string `json:"name"`
}

type brand struct {
	ID     string
	Name   string
	Status string
	Units  int
	Role   *role
}

func (b brand) RowID() string { return b.ID }

func brandColumns() Columns[brand] {
	return NewColumnBuilder[brand]().
		Text("name", "Name", func(b brand) any { return b.Name }).
		Text("status", "Status", func(b brand) any { return b.Status }).
		Add(Column[brand]{
			ID:       "units",
			Header:   "Units",
			Accessor: func(b brand) any { return b.Units },
			Sortable: true,
		}).
		Build()
}

// makeBrands returns n brands with ids brand-01.. and units equal to their index.
func makeBrands(n int) []brand {
	out := make([]brand, n)
	for i := range out {
		status := "Active"
		if i%2 == 1 {
			status = "Draft"
		}
		out[i] = brand{
			ID:     fmt.Sprintf("brand-%02d", i+1),
			Name:   fmt.Sprintf("Tower %d", i+1),
			Status: status,
			Units:  i + 1,
		}
	}
	return out
}

func ids(rows []brand) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}
