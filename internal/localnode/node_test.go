package localnode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tableland/pkg/types"
)

const chainID = 31337

func attachedNode(t *testing.T) *Node {
	t.Helper()
	n := New()
	require.NoError(t, n.Attach(""))
	t.Cleanup(func() { n.Detach() })
	return n
}

func TestAttachDetach(t *testing.T) {
	n := New()
	require.NoError(t, n.Attach(""))
	assert.ErrorIs(t, n.Attach(""), ErrAlreadyAttached)

	require.NoError(t, n.Detach())
	require.NoError(t, n.Detach())

	_, err := n.Apply(context.Background(), chainID, "0x01", "create table foo (id int)")
	assert.ErrorIs(t, err, ErrDetached)
	_, err = n.Receipt(context.Background(), chainID, "0x01")
	assert.ErrorIs(t, err, ErrDetached)
	_, err = n.Query(context.Background(), "select 1")
	assert.ErrorIs(t, err, ErrDetached)
}

func TestAttach_PersistsInDataDir(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	n := New()
	require.NoError(t, n.Attach(dir))
	_, err := n.Apply(ctx, chainID, "0x01", "create table foo_31337 (id integer primary key)")
	require.NoError(t, err)
	require.NoError(t, n.Detach())

	n2 := New()
	require.NoError(t, n2.Attach(dir))
	defer n2.Detach()

	r, err := n2.Receipt(ctx, chainID, "0x01")
	require.NoError(t, err)
	assert.Equal(t, "1", r.TableID)

	r2, err := n2.Apply(ctx, chainID, "0x02", "insert into foo_31337_1 values (1)")
	require.NoError(t, err)
	assert.Equal(t, int64(2), r2.BlockNumber)
}

func TestApply_CreateAssignsTableIDs(t *testing.T) {
	n := attachedNode(t)
	ctx := context.Background()

	r1, err := n.Apply(ctx, chainID, "0xA1", "create table foo_31337 (id integer primary key, name text not null)")
	require.NoError(t, err)
	assert.Equal(t, "1", r1.TableID)
	assert.Equal(t, []string{"1"}, r1.TableIDs)
	assert.Equal(t, "0xa1", r1.TransactionHash)
	assert.False(t, r1.Failed())

	r2, err := n.Apply(ctx, chainID, "0xa2", "create table bar (id int)")
	require.NoError(t, err)
	assert.Equal(t, "2", r2.TableID)
	assert.Greater(t, r2.BlockNumber, r1.BlockNumber)

	other, err := n.Apply(ctx, 1, "0xa3", "create table foo_1 (id int)")
	require.NoError(t, err)
	assert.Equal(t, "1", other.TableID)

	tbl, err := n.Table(ctx, chainID, "1")
	require.NoError(t, err)
	assert.Equal(t, "foo_31337_1", tbl.Name)
	require.Len(t, tbl.Columns, 2)
	assert.Equal(t, []string{"primary key"}, tbl.Columns[0].Constraints)
	assert.Equal(t, []string{"not null"}, tbl.Columns[1].Constraints)

	tbl, err = n.Table(ctx, chainID, "2")
	require.NoError(t, err)
	assert.Equal(t, "bar_31337_2", tbl.Name)

	_, err = n.Table(ctx, chainID, "9")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestApply_MutationsAndQuery(t *testing.T) {
	n := attachedNode(t)
	ctx := context.Background()

	_, err := n.Apply(ctx, chainID, "0x01", "create table foo_31337 (id integer, name text)")
	require.NoError(t, err)
	r, err := n.Apply(ctx, chainID, "0x02", "insert into foo_31337_1 values (1, 'a'); insert into foo_31337_1 values (2, 'b')")
	require.NoError(t, err)
	assert.False(t, r.Failed())
	assert.Empty(t, r.TableID)

	rows, err := n.Query(ctx, "select id, name from foo_31337_1 order by id")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0]["id"])
	assert.Equal(t, "b", rows[1]["name"])

	empty, err := n.Query(ctx, "select * from foo_31337_1 where id > 10")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestApply_FailedStatementRecordsErrorReceipt(t *testing.T) {
	n := attachedNode(t)
	ctx := context.Background()

	tests := []struct {
		name string
		stmt string
	}{
		{name: "missing table", stmt: "insert into nope_31337_5 values (1)"},
		{name: "syntax", stmt: "insert into"},
		{name: "read statement", stmt: "select 1"},
		{name: "system table", stmt: "delete from system_receipts"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := "0xf" + string(rune('0'+i))
			r, err := n.Apply(ctx, chainID, hash, tt.stmt)
			require.NoError(t, err)
			assert.True(t, r.Failed())
			assert.NotEmpty(t, r.Error)
			require.NotNil(t, r.ErrorEventIdx)

			got, err := n.Receipt(ctx, chainID, hash)
			require.NoError(t, err)
			assert.Equal(t, r.Error, got.Error)
			assert.Equal(t, 0, *got.ErrorEventIdx)
		})
	}
}

func TestApply_DuplicateTransaction(t *testing.T) {
	n := attachedNode(t)
	ctx := context.Background()

	_, err := n.Apply(ctx, chainID, "0x01", "create table foo (id int)")
	require.NoError(t, err)
	_, err = n.Apply(ctx, chainID, "0X01", "create table foo (id int)")
	assert.ErrorIs(t, err, ErrDuplicateTx)
}

func TestReceipt_Lag(t *testing.T) {
	n := attachedNode(t)
	ctx := context.Background()

	_, err := n.Receipt(ctx, chainID, "0x01")
	assert.ErrorIs(t, err, types.ErrReceiptNotFound)

	_, err = n.Schedule(ctx, chainID, "0x01", "create table foo (id int)", 2)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = n.Receipt(ctx, chainID, "0x01")
		assert.ErrorIs(t, err, types.ErrReceiptNotFound, "lookup %d", i)
	}
	r, err := n.Receipt(ctx, chainID, "0x01")
	require.NoError(t, err)
	assert.Equal(t, "1", r.TableID)
}

func TestQuery_RejectsWrites(t *testing.T) {
	n := attachedNode(t)

	for _, stmt := range []string{"delete from foo", "select * from system_tables"} {
		_, err := n.Query(context.Background(), stmt)
		assert.ErrorIs(t, err, ErrNotReadStatement, stmt)
	}
}
