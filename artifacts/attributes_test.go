package artifacts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/esmf-org/esmf-branch-summary/model"
)

func TestAttributesFromPath(t *testing.T) {
	path := "/scratch/esmf-test-artifacts/develop/cheyenne/gfortran/10.3.0/g/mpich3/8.1.7/out/build.log"
	attrs, err := AttributesFromPath(path)
	require.NoError(t, err)
	require.Equal(t, model.JobAttributes{
		Branch:          "develop",
		Host:            "cheyenne",
		Compiler:        "gfortran",
		CompilerVersion: "10.3.0",
		Optimization:    "g",
		Mpi:             "mpich3",
		MpiVersion:      "8.1.7",
	}, attrs)
}

func TestAttributesFromPath_TooShort(t *testing.T) {
	_, err := AttributesFromPath("develop/build.log")
	require.Error(t, err)
}

func TestAttributesFromPath_MatchesSummaryAttributes(t *testing.T) {
	// The join between build logs and summary files relies on both sides
	// normalizing to the same key.
	row := model.TestResult{
		Branch:          "develop",
		Host:            "cheyenne",
		Compiler:        "Gfortran",
		CompilerVersion: "10.3.0",
		Optimization:    "G",
		Mpi:             "mpich3",
		MpiVersion:      "8.1.7",
	}
	attrs, err := AttributesFromPath("/a/r/develop/cheyenne/gfortran/10.3.0/G/mpich3/8.1.7/out/build.log")
	require.NoError(t, err)
	require.Equal(t, row.Attributes(), attrs)
}
