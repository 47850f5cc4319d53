package common

// DeviceIDKey is the metadata key under which the device identity is
// persisted for the life of the install.
const DeviceIDKey = "device_id"

// TempIDPrefix marks collection ids generated locally while offline. They
// are replaced by server-assigned ids after a successful sync.
const TempIDPrefix = "temp_"
