package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shamian84/college-appointment-system/pkg/config"
)

func TestCollections(t *testing.T) {
	defs := Collections()
	require.Len(t, defs, 3)

	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
		assert.NotEmpty(t, def.Indexes, def.Name)
		assert.Contains(t, def.Validator, "$jsonSchema", def.Name)
	}
	assert.ElementsMatch(t, []string{"Users", "Availabilities", "Appointments"}, names)
}

func TestAppointmentsIndexes_BookedTupleIsPartialUnique(t *testing.T) {
	idx := AppointmentsIndexes[0]
	require.NotNil(t, idx.Options)
	require.NotNil(t, idx.Options.Unique)
	assert.True(t, *idx.Options.Unique)
	assert.Equal(t, bson.M{"status": config.StatusBooked}, idx.Options.PartialFilterExpression)

	keys, ok := idx.Keys.(bson.D)
	require.True(t, ok)
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, k.Key)
	}
	assert.Equal(t, []string{"student_id", "professor_id", "date", "time"}, fields)
}

func TestUniqueIndexes(t *testing.T) {
	tests := []struct {
		name  string
		index mongo.IndexModel
	}{
		{"uniq_email", UsersIndexes[0]},
		{"uniq_professor_date", AvailabilitiesIndexes[0]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.index.Options)
			assert.Equal(t, tt.name, *tt.index.Options.Name)
			assert.True(t, *tt.index.Options.Unique)
		})
	}
}
