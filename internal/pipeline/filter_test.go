package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuuthfairy/connwatch/internal/model"
)

func conn(name, domain, status string) model.Connection {
	return model.Connection{Name: name, Domain: domain, Status: status}
}

func TestFilterStatusExactMatch(t *testing.T) {
	rows := []model.Connection{
		conn("a", "x.com", "auth_failed"),
		conn("b", "y.com", "ok"),
		conn("c", "z.com", "AUTH_FAILED"),
	}

	kept := FilterStatus(rows, "auth_failed", false)
	require.Len(t, kept, 1)
	assert.Equal(t, "a", kept[0].Name)
}

func TestFilterStatusFoldCase(t *testing.T) {
	rows := []model.Connection{
		conn("a", "x.com", "auth_failed"),
		conn("b", "y.com", "AUTH_FAILED"),
		conn("c", "z.com", "ok"),
	}

	kept := FilterStatus(rows, "auth_failed", true)
	require.Len(t, kept, 2)
	assert.Equal(t, "a", kept[0].Name)
	assert.Equal(t, "b", kept[1].Name)
}

func TestExcludeDomainsSubstring(t *testing.T) {
	rows := []model.Connection{
		conn("a", "foo.unumdentalpwp.skygenusasystems.com", "auth_failed"),
		conn("b", "portal.example.com", "auth_failed"),
		conn("c", "unumdentalpwp.skygenusasystems.com", "auth_failed"),
	}

	kept := ExcludeDomains(rows, []string{"unumdentalpwp.skygenusasystems.com"})
	require.Len(t, kept, 1)
	assert.Equal(t, "b", kept[0].Name)
}

func TestExcludeDomainsEmptyPatternIgnored(t *testing.T) {
	rows := []model.Connection{conn("a", "x.com", "auth_failed")}
	kept := ExcludeDomains(rows, []string{""})
	assert.Len(t, kept, 1)
}

func TestFilterPolicy(t *testing.T) {
	run := BuildRunSet([][]string{
		{"Status", "Group"},
		{"run", "Allowed Group"},
	})

	units := []model.LocationUnit{
		{Key: "a|x", GroupName: "Allowed Group", GroupKnown: true},
		{Key: "b|y", GroupName: "Other Group", GroupKnown: true},
		{Key: "c|z", GroupName: "Unknown", GroupKnown: false},
	}

	kept := FilterPolicy(units, run)
	require.Len(t, kept, 1)
	assert.Equal(t, "a|x", kept[0].Key)
}

func TestFilterPolicyDropsUnresolvedEvenIfLabelListed(t *testing.T) {
	// A policy row literally named like the unknown label must not rescue
	// units whose group never resolved.
	run := BuildRunSet([][]string{
		{"Status", "Group"},
		{"run", "Unknown"},
	})

	units := []model.LocationUnit{
		{Key: "a|x", GroupName: "Unknown", GroupKnown: false},
	}

	assert.Empty(t, FilterPolicy(units, run))
}
