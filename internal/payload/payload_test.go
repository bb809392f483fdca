package payload_test

import (
	"testing"

	"annexvii/internal/payload"
	"annexvii/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDecoderCompilesEverySection(t *testing.T) {
	d, err := payload.NewDecoder()
	require.NoError(t, err)
	assert.ElementsMatch(t, []payload.Section{
		payload.WasteDescription, payload.WasteQuantity, payload.ExporterDetail,
		payload.ImporterDetail, payload.CollectionDate, payload.CollectionDetail,
		payload.UkExitLocation, payload.TransitCountries, payload.Carriers,
		payload.RecoveryFacilityDetail, payload.SubmissionConfirmation,
	}, d.Sections())
}

func TestDecodeWasteDescription(t *testing.T) {
	d := payload.MustNewDecoder()
	raw := []byte(`{
		"status": "Complete",
		"wasteCode": {"type": "BaselAnnexIX", "code": "B1010"},
		"ewcCodes": [{"code": "101213"}],
		"nationalCode": {"provided": "No"},
		"description": "metal scrap"
	}`)

	got, err := payload.Decode[domain.Section[domain.WasteDescriptionData]](d, payload.WasteDescription, raw)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusComplete, got.Status())
	data, ok := got.Payload()
	require.True(t, ok)
	assert.Equal(t, "B1010", data.WasteCode.Code)
	assert.Equal(t, "metal scrap", data.Description)
}

func TestDecodeWasteQuantityKeepsDecimalValue(t *testing.T) {
	d := payload.MustNewDecoder()
	raw := []byte(`{"status":"Started","type":"ActualData","actualData":{"quantityType":"Weight","unit":"Tonne","value":"12.50"}}`)

	got, err := payload.Decode[domain.Section[domain.WasteQuantityData]](d, payload.WasteQuantity, raw)
	require.NoError(t, err)
	data, ok := got.Payload()
	require.True(t, ok)
	require.NotNil(t, data.ActualData)
	assert.Equal(t, "12.5", data.ActualData.Value.String())
}

func TestDecodeWasteQuantityAcceptsNumericValue(t *testing.T) {
	d := payload.MustNewDecoder()
	raw := []byte(`{"status":"Started","type":"EstimateData","estimateData":{"quantityType":"Weight","unit":"Tonne","value":1234567890.123456789}}`)

	got, err := payload.Decode[domain.Section[domain.WasteQuantityData]](d, payload.WasteQuantity, raw)
	require.NoError(t, err)
	data, ok := got.Payload()
	require.True(t, ok)
	require.NotNil(t, data.EstimateData)
	assert.Equal(t, "1234567890.123456789", data.EstimateData.Value.String())
}

func TestDecodeCarriers(t *testing.T) {
	d := payload.MustNewDecoder()
	raw := []byte(`{"status":"Started","transport":true,"values":[{"id":"c1","transportDetails":{"type":"Road"}}]}`)

	got, err := payload.Decode[domain.Carriers](d, payload.Carriers, raw)
	require.NoError(t, err)
	assert.True(t, got.Transport)
	require.Len(t, got.Values, 1)
	assert.Equal(t, domain.TransportRoad, got.Values[0].TransportDetails.Type)
}

func TestValidateRejections(t *testing.T) {
	d := payload.MustNewDecoder()
	cases := map[string]struct {
		section payload.Section
		raw     string
		want    string
	}{
		"unknown section":  {"nope", `{}`, "unknown section"},
		"malformed json":   {payload.ExporterDetail, `{"status":`, "not valid JSON"},
		"trailing data":    {payload.UkExitLocation, `{"status":"NotStarted"} {}`, "not valid JSON"},
		"number as string": {payload.CollectionDate, `{"status":"Started","type":"ActualDate","actualDate":{"day":12}}`, "/actualDate/day"},
		"missing status":   {payload.ExporterDetail, `{}`, "invalid exporterDetail"},
		"bad status":       {payload.ImporterDetail, `{"status":"Done"}`, "/status"},
		"extra field":      {payload.UkExitLocation, `{"status":"Started","extra":1}`, "invalid ukExitLocation"},
		"too many ewc":     {payload.WasteDescription, `{"status":"Started","ewcCodes":[{"code":"101213"},{"code":"101213"},{"code":"101213"},{"code":"101213"},{"code":"101213"},{"code":"101213"}]}`, "/ewcCodes"},
		"ewc format":       {payload.WasteDescription, `{"status":"Started","ewcCodes":[{"code":"1012"}]}`, "/ewcCodes/0/code"},
		"carrier no id":    {payload.Carriers, `{"status":"Started","transport":false,"values":[{}]}`, "/values/0"},
		"bad transport":    {payload.Carriers, `{"status":"Started","transport":true,"values":[{"id":"a","transportDetails":{"type":"Teleport"}}]}`, "transportDetails"},
		"facility kind":    {payload.RecoveryFacilityDetail, `{"status":"Started","values":[{"id":"a","recoveryFacilityType":{"type":"Depot"}}]}`, "recoveryFacilityType"},
		"date part length": {payload.CollectionDate, `{"status":"Started","type":"ActualDate","actualDate":{"day":"123"}}`, "/actualDate/day"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := d.Validate(tc.section, []byte(tc.raw))
			require.Error(t, err)
			assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDecodeRejectsOversizedBody(t *testing.T) {
	d := payload.MustNewDecoder()
	raw := make([]byte, (1<<20)+1)
	_, err := payload.Decode[domain.Section[domain.ExitLocationData]](d, payload.UkExitLocation, raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}
