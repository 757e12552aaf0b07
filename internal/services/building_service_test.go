package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"rentalhub/internal/building"
	"rentalhub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeBuildingStore records inserts in memory and fails properties of the
// listed unit types.
type fakeBuildingStore struct {
	nextID     uint
	failTypes  map[string]bool
	failUnits  map[string]bool
	failImages map[uint]bool
	blocks     []models.PropertyBlock
	properties []models.Property
	units      []models.PropertyUnit
	images     []models.PropertyImage
}

func (f *fakeBuildingStore) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeBuildingStore) CreateBlock(ctx context.Context, block *models.PropertyBlock) error {
	block.ID = f.id()
	f.blocks = append(f.blocks, *block)
	return nil
}

func (f *fakeBuildingStore) CreateProperty(ctx context.Context, p *models.Property) error {
	if f.failTypes[p.UnitType] {
		return errors.New("insert property: connection reset")
	}
	p.ID = f.id()
	f.properties = append(f.properties, *p)
	return nil
}

func (f *fakeBuildingStore) CreateUnits(ctx context.Context, units []models.PropertyUnit) error {
	if len(units) > 0 && f.failUnits[units[0].UnitType] {
		return errors.New("insert units: duplicate unit number")
	}
	f.units = append(f.units, units...)
	return nil
}

func (f *fakeBuildingStore) CreateImages(ctx context.Context, images []models.PropertyImage) error {
	if len(images) > 0 && f.failImages[images[0].PropertyID] {
		return errors.New("insert images: timeout")
	}
	f.images = append(f.images, images...)
	return nil
}

func threeTypeLayout() *building.Layout {
	return &building.Layout{
		BlockName:   "Riverside",
		TotalFloors: 2,
		Floors: []building.Floor{
			{Number: 1, Units: []building.UnitEntry{
				{UnitType: "Studio", Count: 2, MonthlyFee: 500},
				{UnitType: "1BR", Count: 3, MonthlyFee: 800},
			}},
			{Number: 2, Units: []building.UnitEntry{
				{UnitType: "2BR", Count: 4, MonthlyFee: 1200},
			}},
		},
		SharedImages: []string{"https://cdn/lobby.jpg"},
	}
}

func TestPersistPlan_BestEffortSkipsFailedType(t *testing.T) {
	plan, err := building.Expand(threeTypeLayout())
	require.NoError(t, err)

	store := &fakeBuildingStore{failTypes: map[string]bool{"1BR": true}}
	report, err := persistPlan(context.Background(), store, plan, []byte(`{}`), nil, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"Studio", "2BR"}, report.CreatedTypes)
	require.Len(t, report.FailedTypes, 1)
	assert.Equal(t, "1BR", report.FailedTypes[0].UnitType)
	assert.Equal(t, "property", report.FailedTypes[0].Stage)
	assert.Nil(t, report.FailedTypes[0].PropertyID)
	assert.True(t, report.Partial())

	// Studio and 2BR units exist, 1BR units do not
	byType := map[string]int{}
	for _, u := range store.units {
		byType[u.UnitType]++
	}
	assert.Equal(t, map[string]int{"Studio": 2, "2BR": 4}, byType)
	assert.Equal(t, 6, report.UnitsCreated)
	assert.Equal(t, 9, report.UnitsPlanned)
	require.Len(t, store.blocks, 1)
}

func TestPersistPlan_LaterStageFailuresCarryPropertyID(t *testing.T) {
	plan, err := building.Expand(threeTypeLayout())
	require.NoError(t, err)

	// ids: block 1, Studio 2, 1BR 3, 2BR 4
	store := &fakeBuildingStore{
		failUnits:  map[string]bool{"1BR": true},
		failImages: map[uint]bool{4: true},
	}
	report, err := persistPlan(context.Background(), store, plan, []byte(`{}`), nil, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"Studio"}, report.CreatedTypes)
	assert.Equal(t, []uint{2}, report.PropertyIDs)
	require.Len(t, report.FailedTypes, 2)

	unitsFail := report.FailedTypes[0]
	assert.Equal(t, "1BR", unitsFail.UnitType)
	assert.Equal(t, "units", unitsFail.Stage)
	require.NotNil(t, unitsFail.PropertyID)
	assert.Equal(t, uint(3), *unitsFail.PropertyID)

	imagesFail := report.FailedTypes[1]
	assert.Equal(t, "2BR", imagesFail.UnitType)
	assert.Equal(t, "images", imagesFail.Stage)
	require.NotNil(t, imagesFail.PropertyID)
	assert.Equal(t, uint(4), *imagesFail.PropertyID)

	// Studio units plus the 2BR units that did land
	assert.Equal(t, 6, report.UnitsCreated)
	for _, f := range report.FailedTypes {
		assert.NotContains(t, report.CreatedTypes, f.UnitType)
	}
}

func TestPersistPlan_StrictStopsOnFirstFailure(t *testing.T) {
	plan, err := building.Expand(threeTypeLayout())
	require.NoError(t, err)

	store := &fakeBuildingStore{failTypes: map[string]bool{"1BR": true}}
	_, err = persistPlan(context.Background(), store, plan, []byte(`{}`), nil, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1BR")
	assert.Len(t, store.properties, 1)
}

func TestPersistPlan_UnitsLinkedToBlockAndProperty(t *testing.T) {
	plan, err := building.Expand(threeTypeLayout())
	require.NoError(t, err)

	store := &fakeBuildingStore{}
	owner := uint(77)
	report, err := persistPlan(context.Background(), store, plan, []byte(`{}`), &owner, true)
	require.NoError(t, err)
	assert.False(t, report.Partial())

	blockID := store.blocks[0].ID
	seen := map[string]bool{}
	for _, u := range store.units {
		assert.Equal(t, blockID, u.BlockID)
		assert.NotZero(t, u.PropertyID)
		assert.Len(t, u.UnitNumber, 10)
		assert.False(t, seen[u.UnitNumber])
		seen[u.UnitNumber] = true
	}
	for _, p := range store.properties {
		require.NotNil(t, p.LandlordID)
		assert.Equal(t, owner, *p.LandlordID)
		assert.Equal(t, "https://cdn/lobby.jpg", p.ImageURL)
	}
	assert.Len(t, store.images, 3)
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestCreateBuilding_AtomicRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBuildingService(db, CreationAtomic)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "property_blocks"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "properties"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	actor := Actor{UserID: 5, Role: models.RoleLandlord}
	report, err := svc.CreateBuilding(context.Background(), actor, threeTypeLayout(), nil, "")
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBuilding_RejectsInvalidLayoutWithoutSQL(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBuildingService(db, CreationAtomic)

	layout := threeTypeLayout()
	layout.BlockName = ""
	_, err := svc.CreateBuilding(context.Background(), Actor{UserID: 1, Role: models.RoleAdmin}, layout, nil, CreationAtomic)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBuilding_TenantForbidden(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewBuildingService(db, CreationAtomic)

	_, err := svc.CreateBuilding(context.Background(), Actor{UserID: 1, Role: models.RoleTenant}, threeTypeLayout(), nil, "")
	require.Error(t, err)
}

func TestCreateBuilding_UnknownMode(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewBuildingService(db, CreationAtomic)

	_, err := svc.CreateBuilding(context.Background(), Actor{UserID: 1, Role: models.RoleAdmin}, threeTypeLayout(), nil, "yolo")
	require.Error(t, err)
}

func TestGroupByFloor(t *testing.T) {
	floors := groupByFloor([]models.PropertyUnit{
		{FloorNumber: 3, UnitNumber: "a"},
		{FloorNumber: 1, UnitNumber: "b"},
		{FloorNumber: 3, UnitNumber: "c"},
	})
	require.Len(t, floors, 2)
	assert.Equal(t, 1, floors[0].Floor)
	assert.Equal(t, 3, floors[1].Floor)
	assert.Len(t, floors[1].Units, 2)
}
