package lazyproxy_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/admelck/lazy-proxy-unity/framework/lazyproxy"
)

// ── test contracts ───────────────────────────────────────────────────────────

type inventory interface {
	Count(sku string) (int, error)
	Restock(sku string, qty int)
}

// restricted carries an unexported method: a restricted-visibility contract.
type restricted interface {
	reserve(sku string) error
	Count(sku string) (int, error)
}

type notAnInterface struct{}

// ── Inspect ──────────────────────────────────────────────────────────────────

func TestInspect_EnumeratesMembers(t *testing.T) {
	insp := lazyproxy.NewInspector()

	members, err := insp.Inspect(reflect.TypeOf((*inventory)(nil)).Elem())
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}

	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}
	// reflect orders interface methods deterministically (sorted).
	if members[0].Name != "Count" || members[1].Name != "Restock" {
		t.Errorf("member order: got %s, %s", members[0].Name, members[1].Name)
	}

	count := members[0]
	if len(count.In) != 1 || count.In[0].Kind() != reflect.String {
		t.Errorf("Count params: got %v", count.In)
	}
	if len(count.Out) != 2 || !count.ReturnsError() {
		t.Errorf("Count results: got %v", count.Out)
	}
	if !count.Exported {
		t.Error("Count should be exported")
	}

	restock := members[1]
	if restock.ReturnsError() {
		t.Error("Restock has no error return")
	}
	if restock.Variadic {
		t.Error("Restock is not variadic")
	}
}

func TestInspect_NonInterface_ConfigurationError(t *testing.T) {
	insp := lazyproxy.NewInspector()

	for _, contract := range []reflect.Type{
		reflect.TypeOf((*notAnInterface)(nil)).Elem(),
		reflect.TypeOf((**notAnInterface)(nil)).Elem(),
		reflect.TypeOf((*int)(nil)).Elem(),
		nil,
	} {
		_, err := insp.Inspect(contract)
		if !errors.Is(err, lazyproxy.ErrNotInterface) {
			t.Errorf("Inspect(%v): got %v, want ErrNotInterface", contract, err)
		}
		var cfgErr lazyproxy.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Errorf("Inspect(%v): error should be a ConfigurationError", contract)
		}
	}
}

// ── Trust grants ─────────────────────────────────────────────────────────────

func TestInspect_RestrictedContract_RequiresTrust(t *testing.T) {
	insp := lazyproxy.NewInspector()
	contract := reflect.TypeOf((*restricted)(nil)).Elem()

	_, err := insp.Inspect(contract)
	if !errors.Is(err, lazyproxy.ErrContractInaccessible) {
		t.Fatalf("untrusted: got %v, want ErrContractInaccessible", err)
	}

	// Grant access to the declaring package and retry.
	m, _ := contract.MethodByName("reserve")
	insp.Trust(m.PkgPath)

	members, err := insp.Inspect(contract)
	if err != nil {
		t.Fatalf("trusted: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}

	var unexported *lazyproxy.Member
	for i := range members {
		if members[i].Name == "reserve" {
			unexported = &members[i]
		}
	}
	if unexported == nil {
		t.Fatal("reserve member missing")
	}
	if unexported.Exported {
		t.Error("reserve should be reported unexported")
	}
}

func TestTrusted_ReportsGrants(t *testing.T) {
	insp := lazyproxy.NewInspector()
	if insp.Trusted("example.com/pkg") {
		t.Error("fresh inspector should trust nothing")
	}
	insp.Trust("example.com/pkg")
	if !insp.Trusted("example.com/pkg") {
		t.Error("Trust grant should be visible")
	}
}
