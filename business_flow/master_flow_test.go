package businessflow

import (
	"testing"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMaster(t *testing.T) {
	masterRepo := newFakeMasterRepo()
	flow := NewMasterFlow(masterRepo)

	resp, err := flow.CreateMaster(testCtx(), &dto.CreateMasterRequest{
		FullName: "  Sergey Ivanov ",
		Phone:    "+7 (900) 555-66-77",
		Note:     utils.ToPtr("refrigerators"),
	}, testMetadata())
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)

	stored, err := masterRepo.ByID(testCtx(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sergey Ivanov", stored.FullName)
	assert.Equal(t, "79005556677", stored.Phone)
}

func TestCreateMasterValidation(t *testing.T) {
	flow := NewMasterFlow(newFakeMasterRepo())

	_, err := flow.CreateMaster(testCtx(), &dto.CreateMasterRequest{FullName: "  ", Phone: "+79005556677"}, testMetadata())
	assert.Error(t, err)

	_, err = flow.CreateMaster(testCtx(), &dto.CreateMasterRequest{FullName: "Sergey", Phone: "555"}, testMetadata())
	assert.Error(t, err)
}

func TestListMastersActiveOnly(t *testing.T) {
	masterRepo := newFakeMasterRepo()
	masterRepo.add(&models.Master{FullName: "Active", Phone: "79000000001", IsActive: utils.ToPtr(true)})
	masterRepo.add(&models.Master{FullName: "Retired", Phone: "79000000002", IsActive: utils.ToPtr(false)})

	flow := NewMasterFlow(masterRepo)

	all, err := flow.ListMasters(testCtx(), false, testMetadata())
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	active, err := flow.ListMasters(testCtx(), true, testMetadata())
	require.NoError(t, err)
	require.Len(t, active.Items, 1)
	assert.Equal(t, "Active", active.Items[0].FullName)
}
