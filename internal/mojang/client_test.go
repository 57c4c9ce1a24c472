package mojang

import (
	"context"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/suite"
)

type MojangApiSuite struct {
	suite.Suite
	api *MojangApi
}

func (s *MojangApiSuite) SetupTest() {
	httpClient := &http.Client{}
	gock.InterceptClient(httpClient)
	s.api = NewMojangApi(httpClient, "", "")
}

func (s *MojangApiSuite) TearDownTest() {
	gock.Off()
}

func (s *MojangApiSuite) TestUsernameToUuidSuccessfully() {
	gock.New("https://api.mojang.com").
		Get("/users/profiles/minecraft/Thinkofdeath").
		Reply(200).
		JSON(map[string]any{
			"id":     "4566e69fc90748ee8d71d7ba5aa00d20",
			"name":   "Thinkofdeath",
			"legacy": false,
			"demo":   true,
		})

	result, err := s.api.UsernameToUuid(context.Background(), "Thinkofdeath")
	s.Require().NoError(err)
	s.Require().NotNil(result)
	s.Require().Equal("4566e69fc90748ee8d71d7ba5aa00d20", result.Id)
	s.Require().Equal("Thinkofdeath", result.Name)
	s.Require().False(result.IsLegacy)
	s.Require().True(result.IsDemo)
}

func (s *MojangApiSuite) TestUsernameToUuidNotFound() {
	gock.New("https://api.mojang.com").
		Get("/users/profiles/minecraft/some-unknown-user").
		Reply(404).
		JSON(map[string]any{
			"errorMessage": "Couldn't find any profile with that name",
		})

	result, err := s.api.UsernameToUuid(context.Background(), "some-unknown-user")
	s.Require().NoError(err)
	s.Require().Nil(result)
}

func (s *MojangApiSuite) TestUsernameToUuidLegacyNoContent() {
	gock.New("https://api.mojang.com").
		Get("/users/profiles/minecraft/some-unknown-user").
		Reply(204).
		BodyString("")

	result, err := s.api.UsernameToUuid(context.Background(), "some-unknown-user")
	s.Require().NoError(err)
	s.Require().Nil(result)
}

func (s *MojangApiSuite) TestUsernameToUuidTooManyRequests() {
	gock.New("https://api.mojang.com").
		Get("/users/profiles/minecraft/Thinkofdeath").
		Reply(429).
		JSON(map[string]any{
			"error":        "TooManyRequestsException",
			"errorMessage": "The client has sent too many requests within a certain amount of time",
		})

	result, err := s.api.UsernameToUuid(context.Background(), "Thinkofdeath")
	s.Require().Nil(result)
	s.Require().IsType(&TooManyRequestsError{}, err)
	s.Require().EqualError(err, "429: Too Many Requests")
}

func (s *MojangApiSuite) TestUsernameToUuidServerError() {
	gock.New("https://api.mojang.com").
		Get("/users/profiles/minecraft/Thinkofdeath").
		Reply(500).
		BodyString("500 Internal Server Error")

	result, err := s.api.UsernameToUuid(context.Background(), "Thinkofdeath")
	s.Require().Nil(result)
	s.Require().IsType(&ServerError{}, err)
	s.Require().EqualError(err, "500: Server error")
	s.Require().Equal(500, err.(*ServerError).Status)
}

func (s *MojangApiSuite) TestUuidToProfileSuccessfully() {
	gock.New("https://sessionserver.mojang.com").
		Get("/session/minecraft/profile/4566e69fc90748ee8d71d7ba5aa00d20").
		Reply(200).
		JSON(map[string]any{
			"id":   "4566e69fc90748ee8d71d7ba5aa00d20",
			"name": "Thinkofdeath",
			"properties": []any{
				map[string]any{
					"name":  "textures",
					"value": "eyJ0aW1lc3RhbXAiOjE1NDMxMDczMDExODUsInByb2ZpbGVJZCI6IjQ1NjZlNjlmYzkwNzQ4ZWU4ZDcxZDdiYTVhYTAwZDIwIiwicHJvZmlsZU5hbWUiOiJUaGlua29mZGVhdGgiLCJ0ZXh0dXJlcyI6eyJTS0lOIjp7InVybCI6Imh0dHA6Ly90ZXh0dXJlcy5taW5lY3JhZnQubmV0L3RleHR1cmUvNzRkMWUwOGIwYmI3ZTlmNTkwYWYyNzc1ODEyNWJiZWQxNzc4YWM2Y2VmNzI5YWVkZmNiOTYxM2U5OTExYWU3NSJ9LCJDQVBFIjp7InVybCI6Imh0dHA6Ly90ZXh0dXJlcy5taW5lY3JhZnQubmV0L3RleHR1cmUvYjBjYzA4ODQwNzAwNDQ3MzIyZDk1M2EwMmI5NjVmMWQ2NWExM2E2MDNiZjY0YjE3YzgwM2MyMTQ0NmZlMTYzNSJ9fX0=",
				},
			},
		})

	result, err := s.api.UuidToProfile(context.Background(), "4566e69fc90748ee8d71d7ba5aa00d20")
	s.Require().NoError(err)
	s.Require().Equal("4566e69fc90748ee8d71d7ba5aa00d20", result.Id)
	s.Require().Equal("Thinkofdeath", result.Name)
	s.Require().Equal(1, len(result.Props))
	s.Require().Equal("textures", result.Props[0].Name)

	textures, err := result.DecodeTextures()
	s.Require().NoError(err)
	s.Require().NotNil(textures)
	s.Require().Equal(
		"http://textures.minecraft.net/texture/74d1e08b0bb7e9f590af27758125bbed1778ac6cef729aedfcb9613e9911ae75",
		textures.Textures.Skin.Url,
	)
	s.Require().Equal(
		"http://textures.minecraft.net/texture/b0cc08840700447322d953a02b965f1d65a13a603bf64b17c803c21446fe1635",
		textures.Textures.Cape.Url,
	)
}

func (s *MojangApiSuite) TestUuidToProfileDashedUuid() {
	gock.New("https://sessionserver.mojang.com").
		Get("/session/minecraft/profile/4566e69fc90748ee8d71d7ba5aa00d20").
		Reply(200).
		JSON(map[string]any{
			"id":         "4566e69fc90748ee8d71d7ba5aa00d20",
			"name":       "Thinkofdeath",
			"properties": []any{},
		})

	result, err := s.api.UuidToProfile(context.Background(), "4566E69F-C907-48EE-8D71-D7BA5AA00D20")
	s.Require().NoError(err)
	s.Require().Equal("4566e69fc90748ee8d71d7ba5aa00d20", result.Id)
}

func (s *MojangApiSuite) TestUuidToProfileEmptyResponse() {
	gock.New("https://sessionserver.mojang.com").
		Get("/session/minecraft/profile/4566e69fc90748ee8d71d7ba5aa00d20").
		Reply(204).
		BodyString("")

	result, err := s.api.UuidToProfile(context.Background(), "4566e69fc90748ee8d71d7ba5aa00d20")
	s.Require().NoError(err)
	s.Require().Nil(result)
}

func (s *MojangApiSuite) TestUuidToProfileBadRequest() {
	gock.New("https://sessionserver.mojang.com").
		Get("/session/minecraft/profile/xxx").
		Reply(400).
		JSON(map[string]any{
			"error":        "IllegalArgumentException",
			"errorMessage": "Invalid ID characters",
		})

	result, err := s.api.UuidToProfile(context.Background(), "xxx")
	s.Require().Nil(result)
	s.Require().IsType(&BadRequestError{}, err)
	s.Require().EqualError(err, "400 IllegalArgumentException: Invalid ID characters")
}

func (s *MojangApiSuite) TestUuidToProfileForbidden() {
	gock.New("https://sessionserver.mojang.com").
		Get("/session/minecraft/profile/4566e69fc90748ee8d71d7ba5aa00d20").
		Reply(403).
		BodyString("just because")

	result, err := s.api.UuidToProfile(context.Background(), "4566e69fc90748ee8d71d7ba5aa00d20")
	s.Require().Nil(result)
	s.Require().IsType(&ForbiddenError{}, err)
	s.Require().EqualError(err, "403: Forbidden")
}

func TestMojangApi(t *testing.T) {
	suite.Run(t, new(MojangApiSuite))
}

func TestNormalizeUuid(t *testing.T) {
	testCases := map[string]string{
		"4566e69fc90748ee8d71d7ba5aa00d20":     "4566e69fc90748ee8d71d7ba5aa00d20",
		"4566E69F-C907-48EE-8D71-D7BA5AA00D20": "4566e69fc90748ee8d71d7ba5aa00d20",
		"4566e69f-c907-48ee-8d71-d7ba5aa00d20": "4566e69fc90748ee8d71d7ba5aa00d20",
	}

	for input, expected := range testCases {
		if result := NormalizeUuid(input); result != expected {
			t.Errorf("NormalizeUuid(%q) = %q, expected %q", input, result, expected)
		}
	}
}

func TestDecodeTextures(t *testing.T) {
	t.Run("invalid base64", func(t *testing.T) {
		result, err := DecodeTextures("this is not base64!!!")
		if result != nil || err == nil {
			t.Error("expected an error for invalid base64 input")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		result, err := DecodeTextures("bm90IGEganNvbg==")
		if result != nil || err == nil {
			t.Error("expected an error for invalid json payload")
		}
	})

	t.Run("roundtrip", func(t *testing.T) {
		prop := &TexturesProp{
			Timestamp:   1543107301185,
			ProfileID:   "4566e69fc90748ee8d71d7ba5aa00d20",
			ProfileName: "Thinkofdeath",
			Textures: &TexturesResponse{
				Skin: &SkinTexturesResponse{
					Url: "http://textures.minecraft.net/texture/74d1e08b0bb7e9f590af27758125bbed1778ac6cef729aedfcb9613e9911ae75",
				},
			},
		}

		decoded, err := DecodeTextures(EncodeTextures(prop))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if decoded.Textures.Skin.Url != prop.Textures.Skin.Url {
			t.Errorf("unexpected skin url: %s", decoded.Textures.Skin.Url)
		}
	})
}
