package delivery

import (
	"errors"
	"testing"

	"kitchen-dispatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeGetir(t *testing.T) {
	body := []byte(`{
		"id": "getir-55",
		"client": {
			"name": "Mehmet K.",
			"contactPhoneNumber": "+905321234567",
			"deliveryAddress": {"address": "Atatürk Cad. 12, Kadıköy"}
		},
		"products": [
			{"name": {"tr": "Adana Dürüm"}, "priceWithOption": 185.5, "count": 2},
			{"name": {"tr": "Ayran"}, "priceWithOption": 30, "count": 1, "note": "soğuk"}
		],
		"totalDiscountedPrice": 401,
		"deliveryFee": 15,
		"clientNote": "zili çalmayın"
	}`)

	norm, err := Normalize(models.PlatformGetir, body)
	require.NoError(t, err)

	assert.Equal(t, "getir-55", norm.ExternalID)
	assert.Equal(t, "Mehmet K.", norm.CustomerName)
	assert.Equal(t, "+905321234567", norm.CustomerPhone)
	assert.Equal(t, "Atatürk Cad. 12, Kadıköy", norm.CustomerAddress)
	assert.Equal(t, 401.0, norm.Total)
	assert.Equal(t, 15.0, norm.DeliveryFee)
	assert.Equal(t, "zili çalmayın", norm.Note)
	assert.False(t, norm.Cancelled)

	require.Len(t, norm.Items, 2)
	assert.Equal(t, "Adana Dürüm", norm.Items[0].Name)
	assert.Equal(t, 185.5, norm.Items[0].Price)
	assert.Equal(t, 2, norm.Items[0].Quantity)
	assert.Equal(t, "soğuk", norm.Items[1].Note)
}

func TestNormalizeTrendyolAliasFallback(t *testing.T) {
	// no orderNumber, adapter falls back to the next alias in the table
	body := []byte(`{
		"orderId": "ty-900",
		"customer": {"fullName": "Zeynep A."},
		"lines": [{"name": "Pide", "price": 140, "quantity": 1}],
		"totalPrice": 140
	}`)

	norm, err := Normalize(models.PlatformTrendyol, body)
	require.NoError(t, err)
	assert.Equal(t, "ty-900", norm.ExternalID)
	assert.Equal(t, "Zeynep A.", norm.CustomerName)
	assert.Equal(t, 140.0, norm.Total)
}

func TestNormalizeDefaults(t *testing.T) {
	// nearly empty payload is still accepted, with safe defaults
	norm, err := Normalize(models.PlatformMigros, []byte(`{"orderId": "m-1"}`))
	require.NoError(t, err)

	assert.Equal(t, "m-1", norm.ExternalID)
	assert.Empty(t, norm.CustomerName)
	assert.Empty(t, norm.CustomerAddress)
	assert.Zero(t, norm.Total)
	assert.Equal(t, "online", norm.PaymentMethod)
	assert.Empty(t, norm.Items)
}

func TestNormalizeNumericExternalID(t *testing.T) {
	// some platforms send the order id as a number
	norm, err := Normalize(models.PlatformMigros, []byte(`{"orderId": 123456}`))
	require.NoError(t, err)
	assert.Equal(t, "123456", norm.ExternalID)
}

func TestNormalizeItemQuantityDefaultsToOne(t *testing.T) {
	norm, err := Normalize(models.PlatformYemeksepeti, []byte(`{
		"token": "ys-1",
		"products": [{"name": "Künefe", "price": 95}]
	}`))
	require.NoError(t, err)
	require.Len(t, norm.Items, 1)
	assert.Equal(t, 1, norm.Items[0].Quantity)
}

func TestNormalizeCancellationEvent(t *testing.T) {
	cases := []string{"ORDER_CANCELLED", "cancelled", "CancelRequested"}
	for _, status := range cases {
		norm, err := Normalize(models.PlatformYemeksepeti, []byte(`{"token": "ys-2", "status": "`+status+`"}`))
		require.NoError(t, err)
		assert.True(t, norm.Cancelled, "status %q should flag cancellation", status)
	}
}

func TestNormalizeMalformedPayload(t *testing.T) {
	_, err := Normalize(models.PlatformGetir, []byte(`this is not json`))
	assert.True(t, errors.Is(err, models.ErrMalformedPayload), "got %v", err)
}

func TestNormalizeUnknownPlatform(t *testing.T) {
	_, err := Normalize("doordash", []byte(`{}`))
	assert.True(t, errors.Is(err, models.ErrUnknownPlatform), "got %v", err)
}
