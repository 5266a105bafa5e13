package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/fatturo/fatturo/internal/document/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMapError_RawDuplicateKeyIsConflict(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&documentdomain.Document{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	companyID := node.Generate()

	newDocument := func() *documentdomain.Document {
		return &documentdomain.Document{
			ID:        node.Generate(),
			CompanyID: companyID,
			ContactID: node.Generate(),
			Kind:      documentdomain.KindSaleInvoice,
			Number:    "INV-0001",
			Status:    documentdomain.StatusDraft,
			Date:      time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC),
			Currency:  "EUR",
		}
	}
	require.NoError(t, db.Create(newDocument()).Error)

	// A unique-key violation that escaped the service pre-checks must
	// not leak out as an internal error.
	dupErr := db.Create(newDocument()).Error
	require.Error(t, dupErr)

	status, payload := mapError(dupErr)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", payload.Type)
}

func TestMapError_DuplicateSentinelsAreConflicts(t *testing.T) {
	status, payload := mapError(documentdomain.ErrDuplicateNumber)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "document number already in use", payload.Message)
}
