package core_test

import (
	"reflect"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // gomega convention

	"github.com/toejough/depmock/internal/core"
)

func TestLookupType_AcceptsEveryAlias(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	table := newTable(t)

	for _, name := range []string{
		"Beta",
		"*Beta",
		" Beta ",
		"core_test.Beta",
		"github.com/toejough/depmock/internal/core_test.Beta",
	} {
		entry, err := table.LookupType(name)
		g.Expect(err).NotTo(HaveOccurred(), name)
		g.Expect(entry.Type).To(Equal(reflect.TypeFor[Beta]()), name)
	}
}

func TestLookupType_Unknown(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	table := newTable(t)

	_, err := table.LookupType("Missing")
	g.Expect(err).To(MatchError(core.ErrInvalidClass))

	_, err = table.LookupType("  ")
	g.Expect(err).To(MatchError(core.ErrInvalidClass))
}

func TestRegisterType_ConflictingAliasBecomesAmbiguous(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	table := core.NewTypeTable()

	g.Expect(table.RegisterType("Shared", reflect.TypeFor[Beta](), newBetaDouble)).To(Succeed())
	g.Expect(table.RegisterType("Shared", reflect.TypeFor[GammaIface](), newGammaDouble)).To(Succeed())

	_, err := table.LookupType("Shared")
	g.Expect(err).To(MatchError(core.ErrInvalidClass))
	g.Expect(err.Error()).To(ContainSubstring("ambiguous"))

	entry, err := table.LookupType("Beta")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(entry.Type).To(Equal(reflect.TypeFor[Beta]()))
}

func TestRegisterType_RejectsUnnamedTypes(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	table := core.NewTypeTable()

	g.Expect(table.RegisterType("", nil, nil)).To(MatchError(core.ErrInvalidArgument))
	g.Expect(table.RegisterType("", reflect.TypeFor[[]int](), nil)).To(MatchError(core.ErrInvalidArgument))
}

func TestRegisterType_PointerIsDereferenced(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	table := core.NewTypeTable()

	g.Expect(table.RegisterType("", reflect.TypeFor[*Beta](), newBetaDouble)).To(Succeed())

	entry, err := table.LookupType("Beta")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(entry.Type).To(Equal(reflect.TypeFor[Beta]()))
}

func TestRegisterHost_UnknownMethod(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	table := core.NewTypeTable()

	err := table.RegisterHost(reflect.TypeFor[Alpha](), map[string]string{"Missing": "@depends Beta"})
	g.Expect(err).To(MatchError(core.ErrUnknownMethod))

	_, err = table.LookupHost("Alpha")
	g.Expect(err).To(MatchError(core.ErrInvalidClass))
}

func TestRegisterHost_MergesDocs(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	table := newTable(t)

	g.Expect(table.RegisterHost(reflect.TypeFor[Alpha](), map[string]string{
		"NoDocs": "@depends Epsilon",
	})).To(Succeed())

	host, err := table.LookupHost("Alpha")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(host.DocLines("NoDocs")).To(Equal([]string{"@depends Epsilon"}))
	g.Expect(host.DocLines("Run")).To(Equal([]string{"Run runs.", "@depends Beta", "@depends Delta"}))
}

func TestHostEntry_HasMethod(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	table := newTable(t)

	host, err := table.LookupHost("core_test.Alpha")
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(host.HasMethod("Run")).To(BeTrue())
	g.Expect(host.HasMethod("Stop")).To(BeTrue(), "pointer receivers count")
	g.Expect(host.HasMethod(core.Constructor)).To(BeTrue())
	g.Expect(host.HasMethod("Missing")).To(BeFalse())
}
