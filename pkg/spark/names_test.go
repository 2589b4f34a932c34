package spark_test

import (
	"strings"
	"testing"

	"github.com/sparkdock/sparkdock/pkg/spark"
)

func TestResolveIdentity(t *testing.T) {
	fixedSuffix := func() string { return "-20240101123456" }

	t.Run("when a name contains characters illegal for k8s, it sanitizes them into dashes", func(t *testing.T) {
		actual := spark.ResolveIdentity("some.invalid_characters-in/the-name", spark.NoSuffix)

		expected := spark.Identity{
			Name: "some-invalid-characters-in-the-name",
			ID:   "some-invalid-characters-in-the-name",
		}
		if actual != expected {
			t.Errorf("unmatch: (actual, expected) = (%+v, %+v)", actual, expected)
		}
	})

	t.Run("when a name is uppercased, it is lowered", func(t *testing.T) {
		actual := spark.ResolveIdentity("MyApp", spark.NoSuffix)

		if actual.Name != "myapp" || actual.ID != "myapp" {
			t.Errorf("unmatch: (actual, expected) = (%+v, myapp)", actual)
		}
	})

	t.Run("when a name is too long, the ID base is truncated before suffixing", func(t *testing.T) {
		rawName := strings.Repeat("a", 85)
		actual := spark.ResolveIdentity(rawName, fixedSuffix)

		if len(actual.Name) != 63 {
			t.Errorf("display name length: (actual, expected) = (%d, 63)", len(actual.Name))
		}
		if expected := strings.Repeat("a", 48) + "-20240101123456"; actual.ID != expected {
			t.Errorf("unmatch ID: (actual, expected) = (%s, %s)", actual.ID, expected)
		}
		if len(actual.ID) != 63 {
			t.Errorf("ID length: (actual, expected) = (%d, 63)", len(actual.ID))
		}
	})

	t.Run("when truncation would leave a trailing dash, it is trimmed", func(t *testing.T) {
		// cut point (63 - 15 = 48) lands just after the dash at index 47.
		rawName := strings.Repeat("a", 47) + "-" + strings.Repeat("b", 40)
		actual := spark.ResolveIdentity(rawName, fixedSuffix)

		if expected := strings.Repeat("a", 47) + "-20240101123456"; actual.ID != expected {
			t.Errorf("unmatch ID: (actual, expected) = (%s, %s)", actual.ID, expected)
		}
	})

	t.Run("when no name is given, a generic base is used", func(t *testing.T) {
		actual := spark.ResolveIdentity("", fixedSuffix)

		if actual.Name != "spark-app" {
			t.Errorf("unmatch name: (actual, expected) = (%s, spark-app)", actual.Name)
		}
		if expected := "spark-app-20240101123456"; actual.ID != expected {
			t.Errorf("unmatch ID: (actual, expected) = (%s, %s)", actual.ID, expected)
		}
	})

	t.Run("when called twice with the same input, it yields the same identity", func(t *testing.T) {
		a := spark.ResolveIdentity("My App!", fixedSuffix)
		b := spark.ResolveIdentity("My App!", fixedSuffix)

		if a != b {
			t.Errorf("not deterministic: (first, second) = (%+v, %+v)", a, b)
		}
	})
}
