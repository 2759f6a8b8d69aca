package osc

type testCase struct {
	name    string
	obj     Packet
	raw     []byte
	wantErr bool
}

var messageTestCases = []testCase{
	{
		"no_arguments",
		&Message{Address: "/ab"},
		[]byte{'/', 'a', 'b', 0, ',', 0, 0, 0},
		false,
	},
	{
		"int_and_string",
		&Message{Address: "/a", Arguments: []interface{}{int32(1), "hi"}},
		[]byte{
			'/', 'a', 0, 0,
			',', 'i', 's', 0,
			0, 0, 0, 1,
			'h', 'i', 0, 0,
		},
		false,
	},
	{
		"float",
		&Message{Address: "/test", Arguments: []interface{}{float32(1)}},
		[]byte{
			'/', 't', 'e', 's', 't', 0, 0, 0,
			',', 'f', 0, 0,
			0x3f, 0x80, 0, 0,
		},
		false,
	},
	{
		"no_payload_types",
		&Message{Address: "/t", Arguments: []interface{}{true, false, nil}},
		[]byte{
			'/', 't', 0, 0,
			',', 'T', 'F', 'N', 0, 0, 0, 0,
		},
		false,
	},
	{
		"wide_types",
		&Message{Address: "/x", Arguments: []interface{}{int64(-1), float64(0.5), []byte{1, 2, 3}, Timetag(1)}},
		[]byte{
			'/', 'x', 0, 0,
			',', 'h', 'd', 'b', 't', 0, 0, 0,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
			0x3f, 0xe0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 3, 1, 2, 3, 0,
			0, 0, 0, 0, 0, 0, 0, 1,
		},
		false,
	},
}

var bundleTestCases = []testCase{
	{
		"empty",
		&Bundle{Timetag: 1},
		[]byte{
			'#', 'b', 'u', 'n', 'd', 'l', 'e', 0,
			0, 0, 0, 0, 0, 0, 0, 1,
		},
		false,
	},
	{
		"one_message",
		&Bundle{Timetag: 1, Elements: []Packet{&Message{Address: "/ab"}}},
		[]byte{
			'#', 'b', 'u', 'n', 'd', 'l', 'e', 0,
			0, 0, 0, 0, 0, 0, 0, 1,
			0, 0, 0, 8,
			'/', 'a', 'b', 0, ',', 0, 0, 0,
		},
		false,
	},
}
