package chunk

// Chunk type identifiers shared by the 3DS and I3D dialects.
const (
	IDVersion     uint16 = 0x0002 // M3D_VERSION
	IDColorFloat  uint16 = 0x0010
	IDColor24     uint16 = 0x0011
	IDLinColor24F uint16 = 0x0013
	IDPercentI    uint16 = 0x0030
	IDPercentF    uint16 = 0x0031

	IDPrimary    uint16 = 0x4D4D
	IDObjectInfo uint16 = 0x3D3D
	IDEditConfig uint16 = 0x3D3E // mesh version

	IDMaterial       uint16 = 0xAFFF
	IDMatName        uint16 = 0xA000
	IDMatAmbient     uint16 = 0xA010
	IDMatDiffuse     uint16 = 0xA020
	IDMatSpecular    uint16 = 0xA030
	IDMatShininess   uint16 = 0xA040
	IDMatShin2Pct    uint16 = 0xA041
	IDMatTransparent uint16 = 0xA050
	IDMatXPFall      uint16 = 0xA052
	IDMatRefBlur     uint16 = 0xA053
	IDMatTwoSide     uint16 = 0xA081
	IDMatSelfIlPct   uint16 = 0xA084
	IDMatWireSize    uint16 = 0xA087
	IDMatTransFallIn uint16 = 0xA08A
	IDMatSoften      uint16 = 0xA08C
	IDMatShading     uint16 = 0xA100
	IDMatTexMap      uint16 = 0xA200
	IDMatMapFile     uint16 = 0xA300
	IDMatMapTiling   uint16 = 0xA351
	IDMatMapTexBlur  uint16 = 0xA353

	IDObject         uint16 = 0x4000
	IDObjectMesh     uint16 = 0x4100
	IDPointArray     uint16 = 0x4110
	IDVertexOptions  uint16 = 0x4111
	IDFaceArray      uint16 = 0x4120
	IDMaterialGroup  uint16 = 0x4130
	IDSharedUV       uint16 = 0x4140
	IDSmoothing      uint16 = 0x4150
	IDTransform      uint16 = 0x4160
	IDTriVisible     uint16 = 0x4165
	IDMeshTexInfo    uint16 = 0x4170
	IDMeshColor      uint16 = 0x4190
	IDFaceMapChannel uint16 = 0x4200
	IDObjectLight    uint16 = 0x4600
	IDObjectCamera   uint16 = 0x4700

	IDViewportLayout uint16 = 0x7001
	IDViewportData   uint16 = 0x7011
	IDViewportData3  uint16 = 0x7012
	IDMeshDisplay    uint16 = 0x7020

	IDKFData          uint16 = 0xB000
	IDKFObjectNode    uint16 = 0xB002
	IDKFCameraNode    uint16 = 0xB003
	IDKFTargetNode    uint16 = 0xB004
	IDKFLightNode     uint16 = 0xB005
	IDKFLTargetNode   uint16 = 0xB006
	IDKFSpotlightNode uint16 = 0xB007
	IDKFCurTimeRange  uint16 = 0xB008
	IDKFCurTime       uint16 = 0xB009
	IDKFHeader        uint16 = 0xB00A
	IDKFNodeHeader    uint16 = 0xB010
	IDKFInstanceName  uint16 = 0xB011
	IDKFPivot         uint16 = 0xB013
	IDKFBoundBox      uint16 = 0xB014
	IDKFPosTrack      uint16 = 0xB020
	IDKFRotTrack      uint16 = 0xB021
	IDKFSclTrack      uint16 = 0xB022
	IDKFNodeID        uint16 = 0xB030
)
