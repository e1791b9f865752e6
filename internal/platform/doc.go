// Package platform contains OS integration: filesystem helpers, the file
// emitter that writes finished videos and opening/revealing them in the OS.
package platform
