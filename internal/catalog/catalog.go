// Package catalog enumerates the public types of a library, groups their
// records by namespace and hands them to an output writer.
package catalog

import (
	"log/slog"
	"sort"

	"netdoc/internal/metadata"
	"netdoc/internal/model"
)

// Writer receives every type record together with the finished menu.
type Writer interface {
	Write(record model.TypeRecord, menu []model.MenuEntry) error
}

// Catalog holds the records of one library keyed by namespace, in the order the
// types were discovered, and the menu sorted by namespace.
type Catalog struct {
	namespaces map[string][]model.TypeRecord
	menu       []model.MenuEntry
}

// Build walks the top-level public types of the reader and builds their records
// first; the menu is assembled and sorted afterwards in one pass.
func Build(reader metadata.Reader, builder *model.Builder, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}

	catalog := &Catalog{namespaces: make(map[string][]model.TypeRecord)}
	links := make(map[string][]string)
	var order []string

	for _, t := range reader.Types() {
		if t.IsNested() || !t.IsPublic {
			continue
		}

		record := builder.Type(t)
		if _, found := catalog.namespaces[record.Namespace]; !found {
			order = append(order, record.Namespace)
		}
		catalog.namespaces[record.Namespace] = append(catalog.namespaces[record.Namespace], record)
		links[record.Namespace] = append(links[record.Namespace], builder.Linker.Link(t))

		logger.Debug("Built type record", "type", record.LinkName, "methods", len(record.Methods))
	}

	catalog.menu = make([]model.MenuEntry, 0, len(order))
	for _, namespace := range order {
		typeLinks := links[namespace]
		sort.Strings(typeLinks)
		catalog.menu = append(catalog.menu, model.MenuEntry{Namespace: namespace, TypeLinks: typeLinks})
	}
	sort.SliceStable(catalog.menu, func(i, j int) bool {
		return catalog.menu[i].Namespace < catalog.menu[j].Namespace
	})

	return catalog
}

// Menu returns the navigation menu, sorted by namespace.
func (c *Catalog) Menu() []model.MenuEntry {
	return c.menu
}

// Namespaces returns the namespaces in ordinal order.
func (c *Catalog) Namespaces() []string {
	namespaces := make([]string, 0, len(c.namespaces))
	for namespace := range c.namespaces {
		namespaces = append(namespaces, namespace)
	}
	sort.Strings(namespaces)
	return namespaces
}

// Types returns the records of a namespace in construction order.
func (c *Catalog) Types(namespace string) []model.TypeRecord {
	return c.namespaces[namespace]
}

// Len is the number of type records.
func (c *Catalog) Len() int {
	count := 0
	for _, records := range c.namespaces {
		count += len(records)
	}
	return count
}

// Emit writes every record, namespace by namespace in ordinal order. The first
// failure stops the emission.
func (c *Catalog) Emit(writer Writer) error {
	for _, namespace := range c.Namespaces() {
		for _, record := range c.namespaces[namespace] {
			if err := writer.Write(record, c.menu); err != nil {
				return err
			}
		}
	}
	return nil
}
