package opengl

// meshVertSrc transforms by mvp and passes the world-space normal on.
const meshVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;

uniform mat4 mvp;
uniform mat4 model;

out vec3 fragNormal;
out vec2 fragUV;

void main() {
    gl_Position = mvp * vec4(inPosition, 1.0);
    fragNormal  = mat3(transpose(inverse(model))) * inNormal;
    fragUV      = inUV;
}
` + "\x00"

// meshFragSrc is the base colour (times the texture, when bound) with one
// fixed directional light.
const meshFragSrc = `
#version 410 core
in vec3 fragNormal;
in vec2 fragUV;

out vec4 outColor;

uniform vec4      baseColor;
uniform sampler2D albedoTex;
uniform bool      hasTexture;

void main() {
    vec4 color = baseColor;
    if (hasTexture) {
        color *= texture(albedoTex, fragUV);
    }

    vec3  lightDir = normalize(vec3(0.5, -1.0, -0.5));
    float diff     = max(dot(normalize(fragNormal), -lightDir), 0.0);
    outColor = vec4(color.rgb * (0.3 + 0.7 * diff), color.a);
}
` + "\x00"

// overlayVertSrc is a fullscreen triangle from gl_VertexID. The overlay
// image is stored top row first, so V is flipped.
const overlayVertSrc = `
#version 410 core
out vec2 fragUV;
void main() {
    const vec2 pos[3] = vec2[3](
        vec2(-1.0, -1.0),
        vec2( 3.0, -1.0),
        vec2(-1.0,  3.0)
    );
    gl_Position = vec4(pos[gl_VertexID], 0.0, 1.0);
    vec2 uv     = pos[gl_VertexID] * 0.5 + 0.5;
    fragUV      = vec2(uv.x, 1.0 - uv.y);
}
` + "\x00"

// overlayFragSrc samples premultiplied RGBA, which is what image.RGBA holds.
const overlayFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D overlayTex;

void main() {
    outColor = texture(overlayTex, fragUV);
}
` + "\x00"
