package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanGenericErased(t *testing.T) {
	got := Clean(
		"System.Collections.Concurrent.ConcurrentDictionary`2[System.__Canon,System.__Canon]",
		"TryAddInternal",
		"instance bool (!0,value class System.Nullable`1<int32>,!1,bool,bool,!1&)",
	)
	want := "System.Collections.Concurrent.ConcurrentDictionary<T, T>.TryAddInternal(T, System.Nullable<int32>, T, bool, bool, T&)"
	assert.Equal(t, want, got)
}

func TestCleanConstructor(t *testing.T) {
	got := Clean(
		"Contoso.Features.Data.FeatureAggregationCookieService",
		".ctor",
		"instance void (class Contoso.ConfigAsCode.IConfigAsCodeService)",
	)
	want := "new Contoso.Features.Data.FeatureAggregationCookieService(Contoso.ConfigAsCode.IConfigAsCodeService)"
	assert.Equal(t, want, got)
}

func TestCleanNoArgs(t *testing.T) {
	got := Clean("MyNamespace", "MyMethod", "instance class MyNamespace.MyMethod ()")
	assert.Equal(t, "MyNamespace.MyMethod()", got)
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := [][3]string{
		{"System.Collections.Concurrent.ConcurrentDictionary`2[System.__Canon,System.__Canon]", "TryAddInternal", "instance bool (!0,value class System.Nullable`1<int32>,!1,bool,bool,!1&)"},
		{"Contoso.Features.Data.FeatureAggregationCookieService", ".ctor", "instance void (class Contoso.ConfigAsCode.IConfigAsCodeService)"},
	}
	for _, in := range inputs {
		once := Clean(in[0], in[1], in[2])
		// Cleaned output is already source-like; re-cleaning its pieces as a
		// bare type (no signature parens to re-parse) must be a no-op.
		twice := cleanType(once)
		assert.Equal(t, once, twice)
	}
}
