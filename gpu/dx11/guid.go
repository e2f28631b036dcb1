// Copyright 2025 The OpenKneeboard Authors
// SPDX-License-Identifier: MIT

//go:build windows

package dx11

// Well-known D3D11/DXGI interface IDs, in the same declared-literal
// style as d3d12.IID_ID3D12Device.

var iidID3D11Device = GUID{
	Data1: 0xdb6f6ddb, Data2: 0xac77, Data3: 0x4e88,
	Data4: [8]byte{0x82, 0x53, 0x81, 0x9d, 0xf9, 0xbb, 0xf1, 0x40},
}

var iidID3D11Device1 = GUID{
	Data1: 0xa04bfb29, Data2: 0x08ef, Data3: 0x43d6,
	Data4: [8]byte{0xa4, 0x9c, 0xa9, 0xbd, 0xbd, 0xcb, 0xe6, 0x86},
}

var iidID3D11Device5 = GUID{
	Data1: 0x8ffde202, Data2: 0xa0e7, Data3: 0x45df,
	Data4: [8]byte{0x9e, 0x01, 0xe8, 0x37, 0x80, 0x1b, 0x5e, 0xa0},
}

var iidID3D11DeviceContext4 = GUID{
	Data1: 0x917600da, Data2: 0xf58c, Data3: 0x4c33,
	Data4: [8]byte{0x98, 0xd8, 0x3e, 0x15, 0xb3, 0x90, 0xfa, 0x24},
}

var iidID3D11Texture2D = GUID{
	Data1: 0x6f15aaf2, Data2: 0xd208, Data3: 0x4e89,
	Data4: [8]byte{0x9a, 0xb4, 0x48, 0x95, 0x35, 0xd3, 0x4f, 0x9c},
}

var iidID3D11Fence = GUID{
	Data1: 0xaffde9d1, Data2: 0x1df0, Data3: 0x4ef3,
	Data4: [8]byte{0xb7, 0x61, 0x6e, 0x50, 0x55, 0xbc, 0x5b, 0x0d},
}

var iidIDXGIDevice = GUID{
	Data1: 0x54ec77fa, Data2: 0x1377, Data3: 0x44e6,
	Data4: [8]byte{0x8c, 0x32, 0x88, 0xfd, 0x5f, 0x44, 0xc8, 0x4c},
}

var iidIDXGIResource1 = GUID{
	Data1: 0xc47e2352, Data2: 0x1b86, Data3: 0x4ade,
	Data4: [8]byte{0xb3, 0xdd, 0xbf, 0x3e, 0x4f, 0xd1, 0x9c, 0x2a},
}

var iidIDXGIAdapter = GUID{
	Data1: 0x2411e7e1, Data2: 0x12ac, Data3: 0x4ccf,
	Data4: [8]byte{0xbd, 0x14, 0x97, 0x98, 0xe8, 0x53, 0x4d, 0xc0},
}
