package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	reg := New()
	require.NotNil(t, reg)
	require.Empty(t, reg.Keys())
	require.Zero(t, reg.Len())
}

func TestRegistry_Register(t *testing.T) {
	reg := New()

	err := reg.Register(&Injector{ID: "ec2", Namespace: "amazon", Collection: "aws", PluginName: "aws_ec2"})

	require.NoError(t, err)
	require.Equal(t, []string{"ec2"}, reg.Keys())
}

func TestRegistry_Register_Nil(t *testing.T) {
	reg := New()

	err := reg.Register(nil)

	require.ErrorIs(t, err, ErrNilInjector)
	require.Zero(t, reg.Len())
}

func TestRegistry_Register_EmptyID(t *testing.T) {
	reg := New()

	err := reg.Register(&Injector{})

	require.ErrorIs(t, err, ErrEmptyPluginID)
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(&Injector{ID: "gce"}))

	err := reg.Register(&Injector{ID: "gce", PluginName: "other"})

	require.ErrorIs(t, err, ErrDuplicatePlugin)
	require.Contains(t, err.Error(), "gce")
	require.Equal(t, 1, reg.Len())
}

func TestRegistry_Keys_PreservesRegistrationOrder(t *testing.T) {
	reg := New()
	err := reg.RegisterAll(
		&Injector{ID: "constructed"},
		&Injector{ID: "aws"},
		&Injector{ID: "azure_rm"},
	)
	require.NoError(t, err)

	require.Equal(t, []string{"constructed", "aws", "azure_rm"}, reg.Keys())
}

func TestRegistry_Keys_ReturnsCopy(t *testing.T) {
	reg := New()
	require.NoError(t, reg.RegisterAll(&Injector{ID: "a"}, &Injector{ID: "b"}))

	keys := reg.Keys()
	keys[0] = "mutated"

	require.Equal(t, []string{"a", "b"}, reg.Keys())
}

func TestRegistry_RegisterAll_StopsAtFirstFailure(t *testing.T) {
	reg := New()

	err := reg.RegisterAll(&Injector{ID: "a"}, &Injector{ID: "a"}, &Injector{ID: "b"})

	require.ErrorIs(t, err, ErrDuplicatePlugin)
	require.Equal(t, []string{"a"}, reg.Keys())
}

func TestRegistry_Lookup(t *testing.T) {
	reg := New()
	inj := &Injector{ID: "vmware", Namespace: "community", Collection: "vmware", PluginName: "vmware_vm_inventory"}
	require.NoError(t, reg.Register(inj))

	got, err := reg.Lookup("vmware")
	require.NoError(t, err)
	require.Same(t, inj, got)

	_, err = reg.Lookup("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_Injectors(t *testing.T) {
	reg := New()
	a := &Injector{ID: "a"}
	b := &Injector{ID: "b"}
	require.NoError(t, reg.RegisterAll(a, b))

	require.Equal(t, []*Injector{a, b}, reg.Injectors())
}

func TestInjector_FQCN(t *testing.T) {
	tests := []struct {
		name string
		inj  Injector
		want string
	}{
		{"full", Injector{Namespace: "amazon", Collection: "aws", PluginName: "aws_ec2"}, "amazon.aws.aws_ec2"},
		{"plugin only", Injector{PluginName: "constructed"}, "constructed"},
		{"collection only", Injector{Namespace: "azure", Collection: "azcollection"}, "azure.azcollection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.inj.FQCN())
		})
	}
}
