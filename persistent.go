package custodian

// Persistent supports Marshal and Unmarshal
//
// This is separated from Marshaller and Unmarshaller as a model
// stored in the database must implement both, while a message only
// needs to fulfill one side.
type Persistent interface {
	Marshaller
	Unmarshaller
}

// Marshaller is anything that can be represented in binary
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Unmarshaller is a type that can parse its binary representation
type Unmarshaller interface {
	Unmarshal([]byte) error
}

// MustMarshal will succeed or panic
func MustMarshal(obj Marshaller) []byte {
	bz, err := obj.Marshal()
	if err != nil {
		panic(err)
	}
	return bz
}

// MustUnmarshal will succeed or panic
func MustUnmarshal(obj Unmarshaller, bz []byte) {
	err := obj.Unmarshal(bz)
	if err != nil {
		panic(err)
	}
}
