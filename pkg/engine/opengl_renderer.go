package engine

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"retroport/internal/logger"
	"retroport/pkg/video"
)

// CommandProcessor decodes a display list into GL calls
type CommandProcessor func(r *OpenGLRenderer, cmds video.DisplayList)

// renderTarget is an offscreen framebuffer: a color texture plus a
// depth/stencil renderbuffer
type renderTarget struct {
	fbo, texture, rbo uint32
	width, height     uint32
	// requested size before upscaling
	baseWidth, baseHeight uint32
	upscale, autoResize   bool
}

// framebufferSizer is implemented by window managers whose drawable size in
// pixels can differ from the window size
type framebufferSizer interface {
	FramebufferSize() (int, int)
}

// OpenGLRenderer is the OpenGL 4.1 core implementation of video.Renderer.
// Target 0 is the window; offscreen targets start at 1.
type OpenGLRenderer struct {
	log       *logger.Logger
	wm        video.WindowManager
	processor CommandProcessor
	// set once GL entry points are loaded; Close touches GL only after that
	glReady bool

	native           video.Viewport
	offsetX, offsetY int
	outW, outH       int

	targets    []renderTarget
	current    int
	noiseScale float32
	fbEnabled  bool

	textures *textureCache
	filter   video.FilterMode
	detail   bool
	msaa     int

	presentProgram  uint32
	quadVAO         uint32
	quadVBO         uint32
	timeLocation    int32
	noiseLocation   int32
	texSizeLocation int32
	threePointLoc   int32
	samplerLocation int32
}

// NewOpenGLRenderer creates a renderer. GL resources are created by Init once
// the window manager has a current context.
func NewOpenGLRenderer(log *logger.Logger) *OpenGLRenderer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	r := &OpenGLRenderer{
		log:        log.Named("gl"),
		targets:    make([]renderTarget, 1),
		noiseScale: 1.0,
		filter:     video.FilterLinear,
		msaa:       1,
	}
	r.textures = newTextureCache(uploadTexture, deleteTexture, r.applyFilter)
	return r
}

// SetCommandProcessor installs the display-list decoder
func (r *OpenGLRenderer) SetCommandProcessor(p CommandProcessor) {
	r.processor = p
}

// Init loads GL entry points and creates the present shader and quad
func (r *OpenGLRenderer) Init(wm video.WindowManager) error {
	if wm == nil {
		return errors.New("renderer needs a window manager")
	}
	r.wm = wm

	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.glReady = true
	r.log.Infof("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)
	if r.msaa > 1 {
		gl.Enable(gl.MULTISAMPLE)
	}

	var err error
	if r.presentProgram, err = createShaderProgram(presentVertexShaderSource, presentFragmentShaderSource); err != nil {
		return err
	}
	gl.UseProgram(r.presentProgram)
	r.timeLocation = gl.GetUniformLocation(r.presentProgram, gl.Str("time\x00"))
	r.noiseLocation = gl.GetUniformLocation(r.presentProgram, gl.Str("noiseScale\x00"))
	r.texSizeLocation = gl.GetUniformLocation(r.presentProgram, gl.Str("texSize\x00"))
	r.threePointLoc = gl.GetUniformLocation(r.presentProgram, gl.Str("threePoint\x00"))
	r.samplerLocation = gl.GetUniformLocation(r.presentProgram, gl.Str("screenTexture\x00"))

	r.setupScreenQuad()
	r.outW, r.outH = r.outputSize()
	return nil
}

// setupScreenQuad creates a full-screen quad for presenting targets
func (r *OpenGLRenderer) setupScreenQuad() {
	vertices := []float32{
		// Positions   // Texture coords
		-1.0, -1.0, 0.0, 0.0, 0.0,
		1.0, -1.0, 0.0, 1.0, 0.0,
		1.0, 1.0, 0.0, 1.0, 1.0,
		-1.0, 1.0, 0.0, 0.0, 1.0,
	}

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	// Position attribute
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	// Texture coord attribute
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
}

// createShaderProgram compiles and links a shader program from source
func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		gl.DeleteProgram(program)
		gl.DeleteShader(vertexShader)
		gl.DeleteShader(fragmentShader)

		return 0, fmt.Errorf("shader program linking failed: %v", log)
	}

	// linked, the shader objects are no longer needed
	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

// compileShader compiles a shader from source
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		gl.DeleteShader(shader)

		return 0, fmt.Errorf("shader compilation failed: %v", log)
	}

	return shader, nil
}

// outputSize is the drawable size in pixels
func (r *OpenGLRenderer) outputSize() (int, int) {
	if fs, ok := r.wm.(framebufferSizer); ok {
		return fs.FramebufferSize()
	}
	w, h, _, _ := r.wm.Dimensions()
	return w, h
}

// StartFrame follows window resizes and clears the window
func (r *OpenGLRenderer) StartFrame() {
	w, h := r.outputSize()
	if w != r.outW || h != r.outH {
		r.outW, r.outH = w, h
		r.resizeAutoTargets()
	}

	r.ResetFramebuffer()
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Run hands the display list to the command processor
func (r *OpenGLRenderer) Run(cmds video.DisplayList) {
	if r.processor == nil {
		r.log.Debugf("no command processor, dropping %d commands", len(cmds))
		return
	}
	r.processor(r, cmds)
}

// EndFrame returns to the window and presents it
func (r *OpenGLRenderer) EndFrame() {
	if r.current != 0 {
		r.ResetFramebuffer()
	}
	r.wm.SwapBuffersBegin()
	r.wm.SwapBuffersEnd()
}

// upscaleFactor is the integer scale from the native resolution to the output
func (r *OpenGLRenderer) upscaleFactor() uint32 {
	if r.native.Height <= 0 || r.outH <= r.native.Height {
		return 1
	}
	return uint32(r.outH / r.native.Height)
}

func (r *OpenGLRenderer) targetSize(width, height uint32, upscale bool) (uint32, uint32) {
	if !upscale {
		return width, height
	}
	s := r.upscaleFactor()
	return width * s, height * s
}

// CreateFramebuffer allocates an offscreen target and returns its index
func (r *OpenGLRenderer) CreateFramebuffer(width, height uint32, upscale, autoResize bool) int {
	if !r.fbEnabled {
		return -1
	}
	t := renderTarget{
		baseWidth:  width,
		baseHeight: height,
		upscale:    upscale,
		autoResize: autoResize,
	}
	t.width, t.height = r.targetSize(width, height, upscale)
	if err := setupFramebuffer(&t); err != nil {
		r.log.Errorf("framebuffer %dx%d: %v", t.width, t.height, err)
		deleteFramebuffer(&t)
		return -1
	}
	r.targets = append(r.targets, t)
	return len(r.targets) - 1
}

// setupFramebuffer creates the FBO, color texture and depth/stencil renderbuffer
func setupFramebuffer(t *renderTarget) error {
	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	gl.GenTextures(1, &t.texture)
	gl.BindTexture(gl.TEXTURE_2D, t.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(t.width), int32(t.height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.texture, 0)

	gl.GenRenderbuffers(1, &t.rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(t.width), int32(t.height))
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, t.rbo)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer not complete (0x%x)", status)
	}
	return nil
}

func deleteFramebuffer(t *renderTarget) {
	gl.DeleteRenderbuffers(1, &t.rbo)
	gl.DeleteTextures(1, &t.texture)
	gl.DeleteFramebuffers(1, &t.fbo)
	*t = renderTarget{}
}

// resizeStorage reallocates a target's texture and renderbuffer in place
func resizeStorage(t *renderTarget, width, height uint32) {
	if t.width == width && t.height == height {
		return
	}
	t.width, t.height = width, height

	gl.BindTexture(gl.TEXTURE_2D, t.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	gl.BindRenderbuffer(gl.RENDERBUFFER, t.rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(width), int32(height))
}

// resizeAutoTargets re-applies the upscale factor to auto-resizing targets
func (r *OpenGLRenderer) resizeAutoTargets() {
	for i := 1; i < len(r.targets); i++ {
		t := &r.targets[i]
		if t.fbo == 0 || !t.autoResize {
			continue
		}
		w, h := r.targetSize(t.baseWidth, t.baseHeight, t.upscale)
		resizeStorage(t, w, h)
	}
}

func (r *OpenGLRenderer) target(i int) (*renderTarget, bool) {
	if i <= 0 || i >= len(r.targets) || r.targets[i].fbo == 0 {
		return nil, false
	}
	return &r.targets[i], true
}

// SetFramebuffer redirects drawing into target
func (r *OpenGLRenderer) SetFramebuffer(target int, noiseScale float32) {
	if target == 0 {
		r.ResetFramebuffer()
		return
	}
	t, ok := r.target(target)
	if !ok {
		r.log.Warnf("no framebuffer %d", target)
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, int32(t.width), int32(t.height))
	r.current = target
	r.noiseScale = noiseScale
}

// ResetFramebuffer redirects drawing to the window, inside the window offset
func (r *OpenGLRenderer) ResetFramebuffer() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(int32(r.offsetX), int32(r.offsetY), int32(r.outW-r.offsetX), int32(r.outH-r.offsetY))
	r.current = 0
}

// ResizeFramebuffer reallocates target at a new size
func (r *OpenGLRenderer) ResizeFramebuffer(target int, width, height uint32, upscale, autoResize bool) {
	t, ok := r.target(target)
	if !ok {
		return
	}
	t.baseWidth, t.baseHeight = width, height
	t.upscale, t.autoResize = upscale, autoResize
	w, h := r.targetSize(width, height, upscale)
	resizeStorage(t, w, h)
}

// CopyFramebuffer copies src into dst at (left, top). A copy from an
// offscreen target into the window goes through the present shader; every
// other copy is a blit. Reading the window uses the back buffer only when
// useBack is set.
func (r *OpenGLRenderer) CopyFramebuffer(dst, src, left, top int, useBack bool) {
	if dst == src {
		return
	}
	if dst == 0 {
		if t, ok := r.target(src); ok {
			r.present(t, left, top)
			return
		}
	}

	srcFBO, sw, sh, ok := r.fboInfo(src)
	if !ok {
		return
	}
	dstFBO, _, _, ok := r.fboInfo(dst)
	if !ok {
		return
	}

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, srcFBO)
	if src == 0 {
		gl.ReadBuffer(readBuffer(useBack))
	} else {
		gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	}
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, dstFBO)
	gl.BlitFramebuffer(0, 0, sw, sh, int32(left), int32(top), int32(left)+sw, int32(top)+sh,
		gl.COLOR_BUFFER_BIT, gl.NEAREST)

	r.rebindCurrent()
}

func readBuffer(useBack bool) uint32 {
	if useBack {
		return gl.BACK
	}
	return gl.FRONT
}

func (r *OpenGLRenderer) fboInfo(i int) (fbo uint32, w, h int32, ok bool) {
	if i == 0 {
		return 0, int32(r.outW), int32(r.outH), true
	}
	t, ok := r.target(i)
	if !ok {
		return 0, 0, 0, false
	}
	return t.fbo, int32(t.width), int32(t.height), true
}

func (r *OpenGLRenderer) rebindCurrent() {
	if r.current == 0 {
		r.ResetFramebuffer()
		return
	}
	r.SetFramebuffer(r.current, r.noiseScale)
}

// present draws a target's texture into the window, scaled to fill the
// area right and below (left, top)
func (r *OpenGLRenderer) present(t *renderTarget, left, top int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(int32(r.offsetX+left), int32(r.offsetY+top), int32(r.outW-r.offsetX-left), int32(r.outH-r.offsetY-top))

	gl.BindTexture(gl.TEXTURE_2D, t.texture)
	minFilter, magFilter := filterParams(r.filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, nonMipmapped(minFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)

	r.drawQuad(t.texture, float32(t.width), float32(t.height), r.noiseScale)
	r.rebindCurrent()
}

// drawQuad draws tex over the current viewport with the present shader
func (r *OpenGLRenderer) drawQuad(tex uint32, width, height, noiseScale float32) {
	gl.Disable(gl.DEPTH_TEST)

	gl.UseProgram(r.presentProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.Uniform1i(r.samplerLocation, 0)
	gl.Uniform1f(r.timeLocation, float32(r.wm.Time()))
	gl.Uniform1f(r.noiseLocation, noiseScale)
	gl.Uniform2f(r.texSizeLocation, width, height)
	gl.Uniform1i(r.threePointLoc, boolToGL(r.filter == video.FilterThreePoint))

	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, 4)
	gl.BindVertexArray(0)

	gl.Enable(gl.DEPTH_TEST)
}

func boolToGL(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// FramebuffersEnabled reports whether offscreen targets may be created
func (r *OpenGLRenderer) FramebuffersEnabled() bool {
	return r.fbEnabled
}

// SetFramebuffersEnabled toggles offscreen targets
func (r *OpenGLRenderer) SetFramebuffersEnabled(enable bool) {
	r.fbEnabled = enable
}

// filterParams maps a filter mode to GL min and mag filters. Three-point
// samples nearest texels and blends them in the shader.
func filterParams(mode video.FilterMode) (minFilter, magFilter int32) {
	switch mode {
	case video.FilterNone, video.FilterThreePoint:
		return gl.NEAREST, gl.NEAREST
	default:
		return gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
	}
}

// nonMipmapped drops the mipmap part of a min filter for textures without mipmaps
func nonMipmapped(minFilter int32) int32 {
	if minFilter == gl.LINEAR_MIPMAP_LINEAR {
		return gl.LINEAR
	}
	return minFilter
}

func (r *OpenGLRenderer) applyFilter(tex uint32) {
	minFilter, magFilter := filterParams(r.filter)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)
}

// DrawTexture stretches img over the current target, uploading it into the
// texture cache under id on first use
func (r *OpenGLRenderer) DrawTexture(id video.TextureID, img *image.RGBA) {
	tex := r.textures.get(id, img)
	b := img.Bounds()
	r.drawQuad(tex, float32(b.Dx()), float32(b.Dy()), 1.0)
}

// uploadTexture creates a mipmapped, repeating GL texture from img
func uploadTexture(img *image.RGBA) uint32 {
	b := img.Bounds()
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	return tex
}

func deleteTexture(tex uint32) {
	gl.DeleteTextures(1, &tex)
}

// ClearTextureCache deletes every cached texture
func (r *OpenGLRenderer) ClearTextureCache() {
	if n := r.textures.clear(); n > 0 {
		r.log.Debugf("texture cache cleared, %d textures freed", n)
	}
}

// DeleteCachedTexture deletes the texture uploaded for id
func (r *OpenGLRenderer) DeleteCachedTexture(id video.TextureID) {
	r.textures.remove(id)
}

// SetTextureFilter changes the filter of cached and future textures
func (r *OpenGLRenderer) SetTextureFilter(mode video.FilterMode) {
	r.filter = mode
	r.textures.refilter()
}

// TextureFilter is the active filter mode
func (r *OpenGLRenderer) TextureFilter() video.FilterMode {
	return r.filter
}

// SetDetailTextures toggles detail texture passes for the command processor
func (r *OpenGLRenderer) SetDetailTextures(enable bool) {
	r.detail = enable
}

// DetailTextures reports whether detail texture passes are drawn
func (r *OpenGLRenderer) DetailTextures() bool {
	return r.detail
}

// SetMSAALevel sets the sample count. It takes effect with the next window.
func (r *OpenGLRenderer) SetMSAALevel(level int) {
	r.msaa = level
}

// NativeViewport is the logical resolution the game draws into
func (r *OpenGLRenderer) NativeViewport() video.Viewport {
	return r.native
}

// SetNativeViewport changes the logical resolution and rescales upscaled targets
func (r *OpenGLRenderer) SetNativeViewport(vp video.Viewport) {
	r.native = vp
	if r.wm != nil {
		r.resizeAutoTargets()
	}
}

// Dimensions is the drawable size and aspect ratio
func (r *OpenGLRenderer) Dimensions() video.Dimensions {
	w, h := r.outputSize()
	d := video.Dimensions{Width: w, Height: h}
	if h > 0 {
		d.Aspect = float32(w) / float32(h)
	}
	return d
}

// SetWindowOffset shifts the window viewport
func (r *OpenGLRenderer) SetWindowOffset(x, y int) {
	r.offsetX, r.offsetY = x, y
	if r.current == 0 && r.wm != nil {
		r.ResetFramebuffer()
	}
}

// Close releases all GL resources. It is safe after a failed or partial Init.
func (r *OpenGLRenderer) Close() {
	r.wm = nil
	if !r.glReady {
		return
	}
	r.ClearTextureCache()
	for i := 1; i < len(r.targets); i++ {
		if r.targets[i].fbo != 0 {
			deleteFramebuffer(&r.targets[i])
		}
	}
	r.targets = r.targets[:1]
	gl.DeleteVertexArrays(1, &r.quadVAO)
	gl.DeleteBuffers(1, &r.quadVBO)
	gl.DeleteProgram(r.presentProgram)
	r.glReady = false
}

var _ video.Renderer = (*OpenGLRenderer)(nil)
