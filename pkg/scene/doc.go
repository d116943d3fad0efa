// Package scene defines the signed-distance scene types for isoline.
// A scene is an immutable tree of primitive distance fields combined by
// union (pointwise minimum). Values are negative inside, positive outside.
package scene
