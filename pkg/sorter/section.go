package sorter

import (
	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/stdlib"
)

// sectionClassifier assigns statements to their ordered section using
// the standard library tables.
type sectionClassifier struct {
	table *stdlib.Table
}

func newSectionClassifier(table *stdlib.Table) *sectionClassifier {
	if table == nil {
		table = stdlib.Default()
	}
	return &sectionClassifier{table: table}
}

// classify maps one parsed statement onto its section. require splits
// between stdlib and thirdparty on the module table, require_relative
// always loads from the local folder, mixins split between stdlib and
// firstparty on the mixin table, and autoload registers firstparty
// constants.
func (c *sectionClassifier) classify(kind StatementKind, name string) Section {
	switch kind {
	case KindRequire:
		if c.table.IsStandardModule(name) {
			return StdSection
		}
		return ThirdPartySection
	case KindRequireRelative:
		return LocalSection
	case KindInclude, KindExtend, KindUsing:
		if c.table.IsStandardMixin(name) {
			return StdSection
		}
		return FirstPartySection
	case KindAutoload:
		return FirstPartySection
	}
	return ThirdPartySection
}
