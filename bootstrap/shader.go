package bootstrap

import (
	"encoding/binary"

	"github.com/sirupsen/logrus"
)

const (
	VertexEntryPoint   = "vertMain"
	FragmentEntryPoint = "fragMain"
)

// BlobSource finds compiled shader artifacts by name.
type BlobSource interface {
	Find(name string) ([]byte, error)
}

type ShaderModuleHandle struct {
	module  ShaderModule
	size    int
	obj     *Object
	objects *Objects
}

func (h *ShaderModuleHandle) Module() ShaderModule { return h.module }

func (h *ShaderModuleHandle) Object() *Object { return h.obj }

// Size is the blob size in bytes.
func (h *ShaderModuleHandle) Size() int { return h.size }

func (h *ShaderModuleHandle) Destroy() error {
	return h.objects.Release(h.obj)
}

// ShaderStageDescriptor borrows its module; it is only an input for pipeline
// assembly and owns nothing.
type ShaderStageDescriptor struct {
	Stage      ShaderStage
	Module     *ShaderModuleHandle
	EntryPoint string
}

// Stages describes the vertex and fragment entry points of a module that
// carries both stages.
func (h *ShaderModuleHandle) Stages() []ShaderStageDescriptor {
	return []ShaderStageDescriptor{
		{Stage: StageVertex, Module: h, EntryPoint: VertexEntryPoint},
		{Stage: StageFragment, Module: h, EntryPoint: FragmentEntryPoint},
	}
}

type ShaderStageLoader struct {
	Source BlobSource

	Objects *Objects
	Log     logrus.FieldLogger
}

func (l *ShaderStageLoader) Load(device *LogicalDeviceHandle, name string) (*ShaderModuleHandle, error) {
	if err := requireLive("load shader "+name, device.obj); err != nil {
		return nil, err
	}
	if l.Source == nil {
		return nil, fail(ErrShaderLoadFailed, nil, "load shader %s: no shader source configured", name)
	}

	blob, err := l.Source.Find(name)
	if err != nil {
		return nil, fail(ErrShaderLoadFailed, err, "read shader %s", name)
	}

	module, err := l.LoadBytes(device, blob)
	if err != nil {
		return nil, err
	}
	module.obj.name = name
	return module, nil
}

func (l *ShaderStageLoader) LoadBytes(device *LogicalDeviceHandle, blob []byte) (*ShaderModuleHandle, error) {
	if err := requireLive("create shader module", device.obj); err != nil {
		return nil, err
	}
	code, err := bytesToBytecode(blob)
	if err != nil {
		return nil, err
	}

	module, err := device.device.CreateShaderModule(code)
	if err != nil {
		return nil, fail(ErrShaderLoadFailed, err, "create shader module")
	}

	obj, err := l.Objects.Track(KindShaderModule, "", module.Destroy, device.obj)
	if err != nil {
		module.Destroy()
		return nil, err
	}

	loggerOr(l.Log).WithField("bytes", len(blob)).Debug("shader module created")
	return &ShaderModuleHandle{module: module, size: len(blob), obj: obj, objects: l.Objects}, nil
}

// bytesToBytecode reads the blob as little-endian 32-bit words without
// interpreting them.
func bytesToBytecode(b []byte) ([]uint32, error) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, fail(ErrShaderLoadFailed, nil, "shader blob of %d bytes is not a whole number of words", len(b))
	}

	byteCode := make([]uint32, len(b)/4)
	for i := range byteCode {
		byteCode[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return byteCode, nil
}
