// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

// Bank is a row of the banks table.
type Bank struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Branch is a row of the branches table. BankID references Bank.ID; the
// bank itself is resolved separately so a dangling reference stays visible.
type Branch struct {
	IFSC     string `json:"ifsc"`
	Branch   string `json:"branch"`
	Address  string `json:"address"`
	City     string `json:"city"`
	District string `json:"district"`
	State    string `json:"state"`
	BankID   int64  `json:"bank_id"`
}

// Stats is a read-only summary of the dataset size.
type Stats struct {
	Banks    int `json:"banks"`
	Branches int `json:"branches"`
}
