package cluster_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/sparkdock/sparkdock/pkg/cluster"
)

func TestLabelSelectorQueryString(t *testing.T) {
	t.Run("when selectors are given, it renders an equality-based query", func(t *testing.T) {
		testee := cluster.LabelSelector{
			"spark-app-id": cluster.Eq("app-x"),
			"spark-role":   cluster.Eq("driver"),
		}

		actual := strings.Split(testee.QueryString(), ",")
		sort.Strings(actual)

		expected := []string{"spark-app-id=app-x", "spark-role=driver"}
		if len(actual) != len(expected) {
			t.Fatalf("unmatch length: (actual, expected) = (%v, %v)", actual, expected)
		}
		for i := range expected {
			if actual[i] != expected[i] {
				t.Errorf("unmatch [%d]: (actual, expected) = (%s, %s)", i, actual[i], expected[i])
			}
		}
	})

	t.Run("when the selector is empty, the query is empty", func(t *testing.T) {
		testee := cluster.LabelSelector{}
		if actual := testee.QueryString(); actual != "" {
			t.Errorf("unmatch: (actual, expected) = (%q, %q)", actual, "")
		}
	})

	t.Run("when a value is empty, it renders an exists-with-empty-value query", func(t *testing.T) {
		testee := cluster.LabelSelector{"spark-app-id": cluster.Eq("")}
		if actual := testee.QueryString(); actual != "spark-app-id=" {
			t.Errorf("unmatch: (actual, expected) = (%q, %q)", actual, "spark-app-id=")
		}

		testee = cluster.LabelSelector{"spark-app-id": cluster.NotEq("")}
		if actual := testee.QueryString(); actual != "spark-app-id!=" {
			t.Errorf("unmatch: (actual, expected) = (%q, %q)", actual, "spark-app-id!=")
		}
	})

	t.Run("when a selector negates, it renders !=", func(t *testing.T) {
		testee := cluster.LabelSelector{"spark-role": cluster.NotEq("driver")}
		if actual := testee.QueryString(); actual != "spark-role!=driver" {
			t.Errorf("unmatch: (actual, expected) = (%q, spark-role!=driver)", actual)
		}
	})
}

func TestEqualityBased(t *testing.T) {
	t.Run("Eq and a bare value mean the same selector", func(t *testing.T) {
		if !cluster.Eq("driver").Equal(cluster.EqualityBased("driver")) {
			t.Error("Eq(v) != EqualityBased(v)")
		}
	})

	t.Run("Eq and NotEq of the same value differ", func(t *testing.T) {
		if cluster.Eq("driver").Equal(cluster.NotEq("driver")) {
			t.Error("Eq(v) == NotEq(v)")
		}
	})
}

func TestLabelsToSelector(t *testing.T) {
	t.Run("it converts a label map into an equality-based selector", func(t *testing.T) {
		actual := cluster.LabelsToSelector(map[string]string{
			"spark-app-id": "app-x",
			"spark-role":   "driver",
		})

		expected := cluster.LabelSelector{
			"spark-app-id": cluster.Eq("app-x"),
			"spark-role":   cluster.Eq("driver"),
		}
		if len(actual) != len(expected) {
			t.Fatalf("unmatch length: (actual, expected) = (%v, %v)", actual, expected)
		}
		for k, v := range expected {
			if !v.Equal(actual[k]) {
				t.Errorf("unmatch %s: (actual, expected) = (%v, %v)", k, actual[k], v)
			}
		}
	})
}
