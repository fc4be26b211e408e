// Package models defines server-side data models for accounts, the
// activity log and stored files.
package models

import "github.com/dmitrijs2005/securevault/internal/common"

// FileInfo describes one stored file inside an owner's namespace.
type FileInfo struct {
	Name string
	Size int64
}

// Usage aggregates an owner's stored files.
type Usage struct {
	FileCount  int
	TotalBytes int64
}

// MB returns TotalBytes in mebibytes.
func (u Usage) MB() float64 {
	return float64(u.TotalBytes) / (1024 * 1024)
}

// LimitMB is the soft limit in mebibytes.
func (u Usage) LimitMB() float64 {
	return float64(common.StorageSoftLimitBytes) / (1024 * 1024)
}

// Percent is the share of the soft limit in use, clamped to [0, 100].
func (u Usage) Percent() float64 {
	p := float64(u.TotalBytes) / float64(common.StorageSoftLimitBytes) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
