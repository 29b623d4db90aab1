package generate_test

import (
	"bytes"
	"go/parser"
	"go/token"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // gomega convention

	scan "github.com/toejough/depmock/depmockgen/run/2_scan"
	generate "github.com/toejough/depmock/depmockgen/run/3_generate"
)

func auctionScan() *scan.Result {
	return &scan.Result{
		Hosts: []scan.Host{{
			Name: "Auctioneer",
			Type: "Auctioneer",
			Docs: []scan.Doc{
				{Method: "", Lines: []string{"@depends Ledger, Clock"}},
				{Method: "PlaceBid", Lines: []string{"@depends Ledger", "@depends Notifier"}},
			},
		}},
		Dependencies: []scan.Dependency{
			{Name: "Ledger", Type: "Ledger", Kind: scan.KindInterface, Methods: []scan.Method{
				{Name: "Balance", Params: []scan.Param{{Name: "bidder", Type: "string"}}, Results: []string{"int", "error"}},
				{Name: "Reserve", Params: []scan.Param{{Name: "ctx", Type: "context.Context"}}, Results: []string{"error"}},
			}},
			{Name: "Clock", Type: "Clock", Kind: scan.KindStruct, Methods: []scan.Method{
				{Name: "Now", Results: []string{"time.Time"}},
				{Name: "Sleep", Params: []scan.Param{{Name: "arg0", Type: "time.Duration"}}},
			}},
			{Name: "Notifier", Type: "Notifier", Kind: scan.KindInterface, Methods: []scan.Method{
				{Name: "Notify", Params: []scan.Param{
					{Name: "bidder", Type: "string"},
					{Name: "messages", Type: "...string", Variadic: true},
				}},
			}},
			{Name: "Hooks", Type: "Hooks", Kind: scan.KindInterface, Methods: []scan.Method{
				{Name: "Call", Params: []scan.Param{
					{Name: "name", Type: "string"},
					{Name: "args", Type: "...any", Variadic: true},
				}, Results: []string{"[]any"}},
			}},
			{Name: "Audit", Type: "Audit", Kind: scan.KindInterface, Methods: []scan.Method{
				{Name: "Call", Params: []scan.Param{
					{Name: "op", Type: "string"},
					{Name: "values2", Type: "...any", Variadic: true},
				}, Results: []string{"[]any"}},
				{Name: "Flush"},
			}},
		},
	}
}

func TestFile_ParsesAsGo(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	code := generate.File(generate.Input{
		Package: "auction",
		Imports: map[string]string{"context": "context", "time": "time"},
		Scan:    auctionScan(),
	})

	_, err := parser.ParseFile(token.NewFileSet(), "generated_depmock.go", code, parser.ParseComments)
	g.Expect(err).NotTo(HaveOccurred(), code)
	g.Expect(code).To(HavePrefix("// Code generated by depmockgen. DO NOT EDIT.\n\npackage auction\n"))
	g.Expect(code).To(ContainSubstring(`depmock "github.com/toejough/depmock"`))
	g.Expect(code).To(ContainSubstring(`context "context"`))
}

func TestFile_RegistersEveryKind(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	code := generate.File(generate.Input{Package: "auction", Scan: auctionScan()})

	g.Expect(code).To(ContainSubstring(
		"depmock.RegisterInterface(func(m *depmock.Mock) Ledger { return &ledgerDouble{mock: m} })"))
	g.Expect(code).To(ContainSubstring("depmock.RegisterInterface[Hooks](nil)"))
	g.Expect(code).To(ContainSubstring(
		"depmock.RegisterContract[Clock](func(m *depmock.Mock) ClockContract { return &clockDouble{mock: m} })"))
	g.Expect(code).To(ContainSubstring("depmock.RegisterHost[Auctioneer](depmock.Docs{"))
	g.Expect(code).To(ContainSubstring(`depmock.Constructor: "@depends Ledger, Clock",`))
	g.Expect(code).To(ContainSubstring(`"PlaceBid": "@depends Ledger\n@depends Notifier",`))
	g.Expect(code).NotTo(ContainSubstring("hooksDouble"))
}

func TestFile_ForwardsCallsToTheMock(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	code := generate.File(generate.Input{Package: "auction", Scan: auctionScan()})

	g.Expect(code).To(ContainSubstring("type ClockContract interface {\n\tNow() time.Time\n\tSleep(arg0 time.Duration)\n}"))
	g.Expect(code).To(ContainSubstring("func (d *ledgerDouble) Balance(bidder string) (int, error) {"))
	g.Expect(code).To(ContainSubstring(`values := d.mock.Invoke("Balance", bidder)`))
	g.Expect(code).To(ContainSubstring("return depmock.Result[int](values, 0), depmock.Result[error](values, 1)"))
	g.Expect(code).To(ContainSubstring("func (d *notifierDouble) Notify(bidder string, messages ...string) {"))
	g.Expect(code).To(ContainSubstring(`d.mock.Invoke("Notify", bidder, messages)`))
	g.Expect(code).To(ContainSubstring("return d.mock.Call(op, values2...)"))
	g.Expect(code).To(ContainSubstring(`d.mock.Invoke("Flush")`))
}

func TestFile_QualifiedTypes(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	result := &scan.Result{
		Hosts: []scan.Host{{Name: "Shop", Type: "shop.Shop", Docs: []scan.Doc{{Method: "Open", Lines: []string{"@depends Till"}}}}},
		Dependencies: []scan.Dependency{{Name: "Till", Type: "shop.Till", Kind: scan.KindStruct, Methods: []scan.Method{
			{Name: "Total", Results: []string{"shop.Cents"}},
		}}},
	}

	code := generate.File(generate.Input{
		Package: "shop_test",
		Imports: map[string]string{"shop": "example.com/shop"},
		Scan:    result,
	})

	_, err := parser.ParseFile(token.NewFileSet(), "generated_depmock_test.go", code, 0)
	g.Expect(err).NotTo(HaveOccurred(), code)
	g.Expect(code).To(ContainSubstring("depmock.RegisterContract[shop.Till](func(m *depmock.Mock) TillContract {"))
	g.Expect(code).To(ContainSubstring("return depmock.Result[shop.Cents](values, 0)"))
	g.Expect(code).To(ContainSubstring("depmock.RegisterHost[shop.Shop]"))
	g.Expect(code).To(ContainSubstring(`shop "example.com/shop"`))
}

func TestNewTemplateRegistry_PanicsOnBadData(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	registry := generate.NewTemplateRegistry()

	g.Expect(func() { registry.WriteDouble(&bytes.Buffer{}, struct{}{}) }).To(Panic())
}
