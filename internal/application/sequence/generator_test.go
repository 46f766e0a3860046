package sequence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comercial-api/internal/application/sequence"
	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
	"github.com/jhoicas/comercial-api/internal/infrastructure/memory"
)

func TestNext_Correlativo(t *testing.T) {
	store := memory.NewStore()
	store.PutSequence(entity.Sequence{DocumentType: entity.DocumentSale, NextNumber: 41, Prefix: "V-"})
	gen := sequence.NewGenerator()

	var got []string
	for i := 0; i < 3; i++ {
		err := store.Run(context.Background(), func(ctx context.Context, repos repository.Repos) error {
			n, err := gen.Next(ctx, repos, entity.DocumentSale)
			got = append(got, n)
			return err
		})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"V-000041", "V-000042", "V-000043"}, got)
}

func TestNext_RollbackNoConsume(t *testing.T) {
	store := memory.NewStore()
	store.PutSequence(entity.Sequence{DocumentType: entity.DocumentSale, NextNumber: 1, Prefix: "V-"})
	gen := sequence.NewGenerator()

	err := store.Run(context.Background(), func(ctx context.Context, repos repository.Repos) error {
		if _, err := gen.Next(ctx, repos, entity.DocumentSale); err != nil {
			return err
		}
		return domain.ErrInsufficientStock
	})
	require.Error(t, err)
	seq, _ := store.Sequence(entity.DocumentSale)
	assert.Equal(t, int64(1), seq.NextNumber)
}

func TestNext_SinConfiguracion(t *testing.T) {
	store := memory.NewStore()
	err := store.Run(context.Background(), func(ctx context.Context, repos repository.Repos) error {
		_, err := sequence.NewGenerator().Next(ctx, repos, entity.DocumentPurchase)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "P-000007", sequence.Format("P-", 7))
	assert.Equal(t, "1234567", sequence.Format("", 1234567))
}
