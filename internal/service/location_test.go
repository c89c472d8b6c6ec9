package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestLocationService(t *testing.T) (*locationService, *mocks.MockGeocoder, *mocks.MockIPLocator) {
	ctrl := gomock.NewController(t)
	geocoderMock := mocks.NewMockGeocoder(ctrl)
	ipMock := mocks.NewMockIPLocator(ctrl)
	return NewLocationService(geocoderMock, ipMock, newTestLogger()).(*locationService), geocoderMock, ipMock
}

func ptr[T any](v T) *T { return &v }

func TestResolve_GPS(t *testing.T) {
	// Подготовка
	service, geocoderMock, ipMock := newTestLocationService(t)
	ctx := context.Background()

	// Ожидания
	geocoderMock.EXPECT().Reverse(ctx, -1.29, 36.82).Return("Nairobi, Kenya", nil).Times(1)
	ipMock.EXPECT().Lookup(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	loc, err := service.Resolve(ctx, models.ResolveRequest{
		Latitude:  ptr(-1.29),
		Longitude: ptr(36.82),
		Accuracy:  ptr(15.0),
		ClientIP:  "41.90.1.1",
	})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.SourceGPS, loc.Source)
	assert.Equal(t, "Nairobi, Kenya", loc.Address)
	assert.Equal(t, 15.0, *loc.Accuracy)
}

func TestResolve_FallsBackToIP(t *testing.T) {
	// Подготовка
	service, _, ipMock := newTestLocationService(t)
	ctx := context.Background()

	// Ожидания
	ipMock.EXPECT().Lookup(ctx, "41.90.1.1").Return(&models.Location{Latitude: -1.28, Longitude: 36.81, Address: "Nairobi"}, nil).Times(1)

	// Действие
	// Невалидные координаты пропускаются
	loc, err := service.Resolve(ctx, models.ResolveRequest{Latitude: ptr(120.0), Longitude: ptr(10.0), ClientIP: "41.90.1.1"})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.SourceIP, loc.Source)
}

func TestResolve_PrivateIPSkipped(t *testing.T) {
	// Подготовка
	service, geocoderMock, ipMock := newTestLocationService(t)
	ctx := context.Background()

	// Ожидания
	ipMock.EXPECT().Lookup(gomock.Any(), gomock.Any()).Times(0)
	geocoderMock.EXPECT().Search(ctx, "Kibera", 1).
		Return([]models.GeocodeResult{{Latitude: -1.31, Longitude: 36.78, DisplayName: "Kibera, Nairobi"}}, nil).Times(1)

	// Действие
	loc, err := service.Resolve(ctx, models.ResolveRequest{ClientIP: "192.168.1.10", Query: " Kibera "})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.SourceManual, loc.Source)
	assert.Equal(t, "Kibera, Nairobi", loc.Address)
}

func TestResolve_Unavailable(t *testing.T) {
	// Подготовка
	service, geocoderMock, ipMock := newTestLocationService(t)
	ctx := context.Background()

	// Ожидания
	ipMock.EXPECT().Lookup(ctx, "8.8.8.8").Return(nil, fmt.Errorf("quota exceeded")).Times(1)
	geocoderMock.EXPECT().Search(ctx, "nowhere", 1).Return(nil, nil).Times(1)

	// Действие
	_, err := service.Resolve(ctx, models.ResolveRequest{ClientIP: "8.8.8.8", Query: "nowhere"})

	// Проверки
	assert.ErrorIs(t, err, models.ErrLocationUnavailable)
}

func TestReverse_FallsBackToCoordinates(t *testing.T) {
	// Подготовка
	service, geocoderMock, _ := newTestLocationService(t)
	ctx := context.Background()

	// Ожидания
	geocoderMock.EXPECT().Reverse(ctx, -1.5, 36.5).Return("", fmt.Errorf("timeout")).Times(1)

	// Действие
	address, err := service.Reverse(ctx, -1.5, 36.5)

	// Проверки
	require.NoError(t, err)
	assert.Contains(t, address, "-1.5")
}

func TestSearch_Validation(t *testing.T) {
	// Подготовка
	service, geocoderMock, _ := newTestLocationService(t)
	ctx := context.Background()

	// Ожидания
	geocoderMock.EXPECT().Search(ctx, "Mombasa", 5).Return([]models.GeocodeResult{{DisplayName: "Mombasa"}}, nil).Times(1)

	// Действие
	_, errShort := service.Search(ctx, "ab", 5)
	results, err := service.Search(ctx, "Mombasa", 99)

	// Проверки
	assert.ErrorIs(t, errShort, models.ErrInvalidInput)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestIsPublicIP(t *testing.T) {
	assert.True(t, isPublicIP("41.90.1.1"))
	assert.True(t, isPublicIP("2001:4860:4860::8888"))
	assert.False(t, isPublicIP(""))
	assert.False(t, isPublicIP("127.0.0.1"))
	assert.False(t, isPublicIP("10.0.0.5"))
	assert.False(t, isPublicIP("not-an-ip"))
}
