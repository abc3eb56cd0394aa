package artifacts

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/esmf-org/esmf-branch-summary/model"
)

// Artifact paths encode the build combination as directory segments:
//
//	.../<branch>/<host>/<compiler>/<c_version>/<o_g>/<mpi>/<m_version>/out/build.log
//
// AttributesFromPath reads those seven segments back out.
func AttributesFromPath(path string) (model.JobAttributes, error) {
	segments := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
	if len(segments) < 9 {
		return model.JobAttributes{}, fmt.Errorf("path %q too short to carry job attributes", path)
	}
	normalize := func(i int) string {
		seg := segments[len(segments)+i]
		return strings.ReplaceAll(strings.ToLower(seg), "out", "")
	}
	return model.JobAttributes{
		Branch:          normalize(-9),
		Host:            normalize(-8),
		Compiler:        normalize(-7),
		CompilerVersion: normalize(-6),
		Optimization:    normalize(-5),
		Mpi:             normalize(-4),
		MpiVersion:      normalize(-3),
	}, nil
}
