package helpers

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nidhishshastri/loyalty-gateway/internal/repository"
	"github.com/nidhishshastri/loyalty-gateway/pkg/pg"
	"github.com/nidhishshastri/loyalty-gateway/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func SetupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&repository.CustomerEntity{},
		&repository.GiftEntity{},
		&repository.RedemptionEntity{},
	)
	require.NoError(t, err)

	pgDB := &pg.DB{}
	pgDBValue := reflect.ValueOf(pgDB).Elem()

	readField := pgDBValue.FieldByName("read")
	writeField := pgDBValue.FieldByName("write")

	readField = reflect.NewAt(readField.Type(), readField.Addr().UnsafePointer()).Elem()
	writeField = reflect.NewAt(writeField.Type(), writeField.Addr().UnsafePointer()).Elem()

	readField.Set(reflect.ValueOf(db))
	writeField.Set(reflect.ValueOf(db))

	return pgDB
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	adapter, err := redis.NewRedisAdapter("test", "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func CreateTestCustomer(t *testing.T, db *pg.DB, id, mobile string, points uint) *repository.CustomerEntity {
	ctx := context.Background()
	card := "CARD" + id[4:]
	customer := &repository.CustomerEntity{
		ID:         id,
		Name:       "Test Customer " + id,
		Mobile:     mobile,
		CardNumber: &card,
		CardStatus: "ACTIVE",
		Points:     points,
	}
	err := db.Write(ctx).Create(customer).Error
	require.NoError(t, err)
	return customer
}

func CreateTestGift(t *testing.T, db *pg.DB, name string, stock, pointsCost uint) *repository.GiftEntity {
	ctx := context.Background()
	gift := &repository.GiftEntity{
		Name:        name,
		Stock:       stock,
		ArrivalDate: time.Now().AddDate(0, 0, -7),
		PointsCost:  pointsCost,
	}
	err := db.Write(ctx).Create(gift).Error
	require.NoError(t, err)
	return gift
}

func CreateTestRedemption(t *testing.T, db *pg.DB, customerID, giftName string, pointsCost uint) *repository.RedemptionEntity {
	ctx := context.Background()
	redemption := &repository.RedemptionEntity{
		CustomerID: customerID,
		GiftName:   giftName,
		PointsCost: pointsCost,
		CreatedAt:  time.Now(),
	}
	err := db.Write(ctx).Create(redemption).Error
	require.NoError(t, err)
	return redemption
}

func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func AssertEventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	if !WaitForCondition(t, timeout, condition) {
		t.Fatal(msg)
	}
}

func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func Ptr[T any](v T) *T {
	return &v
}
