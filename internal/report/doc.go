// Package report renders allocation results as a text table, CSV, JSON or
// YAML.
package report
