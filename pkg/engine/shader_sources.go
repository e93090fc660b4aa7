package engine

// Shaders for drawing a framebuffer's texture into the window

const presentVertexShaderSource = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 TexCoord;

void main() {
    gl_Position = vec4(aPos, 1.0);
    TexCoord = aTexCoord;
}
`

const presentFragmentShaderSource = `
#version 410 core
in vec2 TexCoord;
out vec4 FragColor;

uniform sampler2D screenTexture;
uniform float time;
uniform float noiseScale;
uniform vec2 texSize;
uniform int threePoint;

// Pseudo-random noise function
float rand(vec2 co) {
    return fract(sin(dot(co.xy, vec2(12.9898, 78.233))) * 43758.5453);
}

float noise(vec2 p) {
    vec2 ip = floor(p);
    vec2 u = fract(p);
    u = u * u * (3.0 - 2.0 * u);

    float res = mix(
        mix(rand(ip), rand(ip + vec2(1.0, 0.0)), u.x),
        mix(rand(ip + vec2(0.0, 1.0)), rand(ip + vec2(1.0, 1.0)), u.x),
        u.y);
    return res * res;
}

// Three-point filter: blend the nearest texel with its two closest
// neighbours across a triangle instead of four texels.
vec4 sampleThreePoint(vec2 uv) {
    vec2 texel = 1.0 / texSize;
    vec2 pos = uv * texSize - 0.5;
    vec2 f = fract(pos);
    vec2 base = (floor(pos) + 0.5) * texel;

    vec2 corner = (f.x + f.y > 1.0) ? vec2(1.0) : vec2(0.0);
    vec2 d = abs(f - corner);
    vec4 c0 = texture(screenTexture, base + corner * texel);
    vec4 cx = texture(screenTexture, base + vec2(1.0 - corner.x, corner.y) * texel);
    vec4 cy = texture(screenTexture, base + vec2(corner.x, 1.0 - corner.y) * texel);
    return c0 + d.x * (cx - c0) + d.y * (cy - c0);
}

void main() {
    vec4 color = (threePoint != 0) ? sampleThreePoint(TexCoord) : texture(screenTexture, TexCoord);

    // 1.0 is a clean copy; anything above adds grain
    float amount = max(noiseScale - 1.0, 0.0);
    if (amount > 0.0) {
        float n = noise(TexCoord * texSize + time);
        color.rgb += (n - 0.5) * 0.05 * amount;
    }

    FragColor = color;
}
`
